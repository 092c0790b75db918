package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/youtube-chrono/chrono/internal/infra/config"
	"github.com/youtube-chrono/chrono/internal/infra/spotify"
	"github.com/youtube-chrono/chrono/internal/infra/youtube"
)

// YouTubeSettings are the settings of the youtube source.
type YouTubeSettings struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" default:"https://youtube.googleapis.com/" validate:"url"`
}

// SpotifySettings are the settings of the spotify source.
type SpotifySettings struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret" validate:"required"`
	Market       string `yaml:"market" mapstructure:"market" validate:"omitempty,len=2"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	TokenURL     string `yaml:"token_url" mapstructure:"token_url" validate:"omitempty,url"`
}

// NewFromConfig creates the source selected by the configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Source, error) {
	zlog.Debug().Msgf("creating source: type=%s", cfg.Source.Type)

	switch cfg.Source.Type {
	case "youtube", "":
		var s YouTubeSettings
		if err := decodeSettings(cfg.Source.Settings, &s); err != nil {
			return nil, errors.Wrap(err, "invalid youtube settings")
		}
		c, err := youtube.New(ctx, youtube.Config{APIKey: s.APIKey, Endpoint: s.Endpoint})
		if err != nil {
			return nil, err
		}
		zlog.Info().Msgf("registered source: type=youtube endpoint=%s", s.Endpoint)
		return c, nil

	case "spotify":
		var s SpotifySettings
		if err := decodeSettings(cfg.Source.Settings, &s); err != nil {
			return nil, errors.Wrap(err, "invalid spotify settings")
		}
		c, err := spotify.New(ctx, spotify.Config{
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			Market:       s.Market,
			BaseURL:      s.BaseURL,
			TokenURL:     s.TokenURL,
		})
		if err != nil {
			return nil, err
		}
		zlog.Info().Msgf("registered source: type=spotify market=%s", s.Market)
		return c, nil

	default:
		return nil, errors.Newf("unsupported source type: %s", cfg.Source.Type)
	}
}

func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
