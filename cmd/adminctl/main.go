// adminctl is the operator tool for tasks that have no web surface, most
// importantly configuring the dashboard password. The service refuses admin
// logins until set-password has been run once.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"reservas/internal/auth"
	"reservas/internal/config"
	"reservas/internal/logging"
	"reservas/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("command is required")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Path, logging.Nop())
	if err != nil {
		return err
	}
	defer store.Close()

	sessions := storage.NewMemorySessionStore()
	gate := auth.NewGate(store, sessions, nil, cfg.Admin.MinPasswordLength, time.Duration(cfg.Admin.SessionTTLSeconds)*time.Second, logging.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch args[0] {
	case "set-password":
		if len(args) != 2 {
			return errors.New("usage: adminctl set-password <password>")
		}
		if err := gate.SetCredential(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Contraseña configurada.")
		return nil

	case "status":
		configured, err := gate.HasCredential(ctx)
		if err != nil {
			return fmt.Errorf("no se pudo leer el almacén: %w", err)
		}
		if configured {
			fmt.Println("Contraseña: configurada")
		} else {
			fmt.Println("Contraseña: sin configurar (ejecute adminctl set-password)")
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: adminctl <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  set-password <password>  configure the dashboard password")
	fmt.Fprintln(os.Stderr, "  status                   show whether a password is configured")
}
