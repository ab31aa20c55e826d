package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/push"
)

// ProvideVAPIDKeys loads the VAPID key pair from the data directory,
// generating one on first start.
func ProvideVAPIDKeys(i do.Injector) (*push.VAPIDKeys, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	keys, err := push.LoadOrGenerateVAPIDKeys(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("VAPID keys loaded", "subscriber", cfg.Push.Subscriber)

	return keys, nil
}

// ProvideDispatcher provides the Web Push fan-out dispatcher.
func ProvideDispatcher(i do.Injector) (*push.Dispatcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	keys := do.MustInvoke[*push.VAPIDKeys](i)
	log := do.MustInvoke[*logger.Logger](i)

	sender := push.NewWebPushSender(keys, cfg.Push.Subscriber)
	return push.NewDispatcher(sender, log.Logger), nil
}
