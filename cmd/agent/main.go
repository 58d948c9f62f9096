// Command agent runs the activation flow from a terminal: it registers
// an in-process worker against the backend origin, resolves the
// notification permission, mints a push subscription and submits it to
// the backend. It can also mint a fresh VAPID key pair.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"citapush/config"
	"citapush/internal/assetcache"
	"citapush/internal/infra/backend"
	logs "citapush/internal/infra/log"
	"citapush/internal/infra/notify"
	"citapush/internal/infra/permission"
	"citapush/internal/infra/pushservice"
	"citapush/internal/infra/webpush"
	"citapush/internal/ui"
	"citapush/internal/usecase/impl"
	"citapush/internal/worker"
)

func main() {
	var (
		subscriberID = flag.String("subscriber", "", "subscriber identity to activate push for")
		genKeys      = flag.Bool("genkeys", false, "generate a VAPID key pair and exit")
	)
	flag.Parse()

	if *genKeys {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Println("PUSH_PUBLICKEY=" + publicKey)
		fmt.Println("PUSH_PRIVATEKEY=" + privateKey)

		return
	}

	if *subscriberID == "" {
		fmt.Fprintln(os.Stderr, "error: -subscriber is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*subscriberID); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(subscriberID string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	fetcher, err := assetcache.NewHTTPFetcher(cfg.Push.BackendURL, nil)
	if err != nil {
		return err
	}

	registry := assetcache.NewRegistry()
	cache := registry.Open(cfg.Cache.Name, cfg.Cache.Manifest, fetcher, logger)

	pushSvc := pushservice.NewLocal(cfg.Push.BackendURL+"/push", logger)
	registration := worker.New(cfg, cache, registry, pushSvc,
		notify.NewLogNotifier(logger), notify.NewClientRegistry(logger), logger)
	registrar := worker.NewRegistrar(registration, fetcher, logger)

	gate := impl.NewPermissionGate(permission.NewTerminal(os.Stdin, os.Stdout), logger)
	activation := impl.NewActivationService(cfg, registrar, gate, backend.NewClient(cfg, logger), logger)

	binding := ui.NewBinding(activation, logger)

	ctx := context.Background()
	fmt.Println(binding.Snapshot().Label)

	activateErr := binding.Activate(ctx, subscriberID)
	fmt.Println(binding.Snapshot().Label)

	return activateErr
}
