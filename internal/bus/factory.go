package bus

import (
	"fmt"
	"strings"

	"github.com/issuescout/issue-scout/internal/config"
	"github.com/issuescout/issue-scout/internal/pkg/errors"
	"github.com/issuescout/issue-scout/internal/pkg/logger"
)

// NewBus creates a new Bus instance based on the configuration.
func NewBus(cfg config.BusConfig, log *logger.Logger) (Bus, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory", "":
		return NewMemoryBus(log), nil

	case "kafka":
		brokers := ParseKafkaBrokers(cfg.KafkaBrokers)
		if len(brokers) == 0 {
			return nil, errors.New(errors.CodeValidation, "kafka brokers not configured")
		}

		consumerGroup := cfg.KafkaGroup
		if consumerGroup == "" {
			consumerGroup = "issue-scout"
		}

		return NewKafkaBus(KafkaConfig{
			Brokers:       brokers,
			ConsumerGroup: consumerGroup,
			ClientID:      "issue-scout-bus",
		}, log)

	default:
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown bus type: %s", cfg.Type))
	}
}
