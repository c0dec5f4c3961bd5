// Command devserver runs the in-memory mock storefront backend for local
// development. It seeds a verified demo user, a restaurant owner and a
// couple of menu items so the CLI works out of the box.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	storefront "github.com/savorline/storefront-client"
	"github.com/savorline/storefront-client/internal/devserver"
	"github.com/savorline/storefront-client/pkg/logger"
)

func main() {
	var (
		addr = flag.String("addr", ":8090", "Listen address")
	)
	flag.Parse()

	lg := logger.NewDefault("devserver")

	srv := devserver.New()
	seed(srv)

	lg.WithField("addr", *addr).Info("mock backend listening")
	lg.Info("demo accounts: demo@savorline.test / demo1234, owner@savorline.test / owner1234")

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func seed(srv *devserver.Server) {
	userID := srv.SeedUser("Demo User", "demo@savorline.test", "demo1234", storefront.RoleUser)
	srv.SeedUser("Demo Owner", "owner@savorline.test", "owner1234", storefront.RoleRestaurantOwner)

	srv.SeedMenu([]storefront.MenuItem{
		{ID: "m-margherita", Name: "Margherita", Price: 1050, InStock: true, Published: true},
		{ID: "m-pepperoni", Name: "Pepperoni", Price: 1250, InStock: true, Published: true},
		{ID: "m-tiramisu", Name: "Tiramisu", Price: 550, DiscountPercent: 10, InStock: true, Published: true},
	})

	srv.PushNotification(userID, "Welcome", "Thanks for trying the demo backend.")
}
