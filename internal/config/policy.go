package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	MaxNameLength = 32
	MaxTagLength  = 8
)

// Policy holds the tunable clan limits.
type Policy struct {
	NameMaxLength int `mapstructure:"nameMaxLength"`
	TagMaxLength  int `mapstructure:"tagMaxLength"`
}

func DefaultPolicy() Policy {
	return Policy{
		NameMaxLength: MaxNameLength,
		TagMaxLength:  MaxTagLength,
	}
}

type PolicyHolder struct {
	current atomic.Value // holds Policy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(p Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(p)
	return holder
}

func NewPolicyHolder(log *zap.Logger) (*PolicyHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.policy")

	v := viper.New()

	v.SetConfigName("clans")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/clans")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLANS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicy()
	v.SetDefault("policy.nameMaxLength", defaults.NameMaxLength)
	v.SetDefault("policy.tagMaxLength", defaults.TagMaxLength)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var p Policy
	if err := v.UnmarshalKey("policy", &p); err != nil {
		return nil, err
	}
	if err := ValidatePolicy(p); err != nil {
		return nil, err
	}

	holder := NewStaticPolicyHolder(p)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Policy
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Warn("policy reload failed", zap.Error(err))
			return
		}
		if err := ValidatePolicy(updated); err != nil {
			log.Warn("invalid policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *PolicyHolder) Get() Policy {
	if h == nil {
		return DefaultPolicy()
	}
	p, ok := h.current.Load().(Policy)
	if !ok {
		return DefaultPolicy()
	}
	return p
}

// ValidatePolicy rejects limits wider than the storage columns.
func ValidatePolicy(p Policy) error {
	if p.NameMaxLength < 1 || p.NameMaxLength > MaxNameLength {
		return fmt.Errorf("policy.nameMaxLength must be between 1 and %d", MaxNameLength)
	}
	if p.TagMaxLength < 1 || p.TagMaxLength > MaxTagLength {
		return fmt.Errorf("policy.tagMaxLength must be between 1 and %d", MaxTagLength)
	}
	return nil
}
