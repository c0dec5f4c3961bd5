// Command storefront is a small CLI over the storefront client, mainly for
// poking at a backend during development.
//
// Usage:
//
//	storefront login <email> <password>
//	storefront logout
//	storefront whoami
//	storefront menu
//	storefront cart
//	storefront cart add <menu-item-id> <qty>
//	storefront cart set <cart-item-id> <qty>
//	storefront cart rm <cart-item-id>
//	storefront orders
//	storefront watch
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	storefront "github.com/savorline/storefront-client"
	"github.com/savorline/storefront-client/internal/config"
	"github.com/savorline/storefront-client/internal/credentials"
	"github.com/savorline/storefront-client/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "storefront.yaml", "Path to config file")
		envFile    = flag.String("env", ".env", "Path to .env file (optional)")
	)
	flag.Parse()

	// A missing .env is fine; explicit paths that fail to parse are not.
	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Fatalf("load env (%s): %v", *envFile, err)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.New("storefront", cfg.LogLevel)

	creds := credentials.NewFileStore(cfg.CredentialsFile)

	client, err := storefront.NewClient(storefront.Options{
		BaseURL:     cfg.BaseURL,
		Credentials: creds,
		HTTPClient:  &http.Client{Timeout: cfg.RequestTimeout},
		Logger:      lg,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		},
	})
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, client, cfg.PollInterval, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", storefront.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, client *storefront.Client, pollInterval time.Duration, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("a command is required")
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		user, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
		return nil

	case "logout":
		return client.Logout()

	case "whoami":
		if err := restoreSession(ctx, client); err != nil {
			return err
		}
		user, ok := client.Stores().Session.User()
		if !ok {
			return fmt.Errorf("not logged in")
		}
		fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
		return nil

	case "menu":
		if err := restoreSession(ctx, client); err != nil {
			return err
		}
		items, err := client.FetchMenu(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%-16s %-24s %8s\n", item.ID, item.Name, money(item.UnitPrice()))
		}
		return nil

	case "cart":
		return runCart(ctx, client, args[1:])

	case "orders":
		if err := restoreSession(ctx, client); err != nil {
			return err
		}
		orders, err := client.FetchOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Println(storefront.OrderSummary(o))
		}
		return nil

	case "watch":
		if err := restoreSession(ctx, client); err != nil {
			return err
		}
		client.StartUnreadPoller(ctx, rate.Every(pollInterval))
		fmt.Println("watching notifications, interrupt to stop")

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fmt.Printf("unread notifications: %d\n", client.Stores().Notifications.Unread())
			}
		}

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runCart(ctx context.Context, client *storefront.Client, args []string) error {
	if err := restoreSession(ctx, client); err != nil {
		return err
	}

	if len(args) == 0 {
		items, err := client.FetchCart(ctx)
		if err != nil {
			return err
		}
		for _, line := range items {
			fmt.Printf("%-36s %-24s x%-3d %8s\n",
				line.ID, line.Item.Name, line.Quantity, money(line.Item.UnitPrice()*int64(line.Quantity)))
		}
		totals := client.Stores().Cart.Totals()
		fmt.Printf("%d items, subtotal %s\n", totals.TotalItems, money(totals.Subtotal))
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart add <menu-item-id> <qty>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number")
		}
		return client.AddToCart(ctx, args[1], qty)

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart set <cart-item-id> <qty>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number")
		}
		return client.UpdateCartItem(ctx, args[1], qty)

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: cart rm <cart-item-id>")
		}
		return client.DeleteCartItem(ctx, args[1])

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

// restoreSession resolves the persisted session before a command that needs
// one.
func restoreSession(ctx context.Context, client *storefront.Client) error {
	controller := storefront.NewSessionController(client, nil)
	if controller.Start(ctx) != storefront.StateAuthenticated {
		return fmt.Errorf("not logged in")
	}
	return nil
}

func money(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
