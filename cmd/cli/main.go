package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/alextreichler/storefront-console/internal/backend"
	"github.com/alextreichler/storefront-console/internal/config"
	"github.com/alextreichler/storefront-console/internal/console"
	"github.com/alextreichler/storefront-console/internal/health"
)

const usage = "expected 'products', 'inventory' or 'health' subcommand"

func main() {
	productsCmd := flag.NewFlagSet("products", flag.ExitOnError)

	inventoryCmd := flag.NewFlagSet("inventory", flag.ExitOnError)
	skus := inventoryCmd.String("sku", "", "Comma-separated SKU codes to check")

	healthCmd := flag.NewFlagSet("health", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "products":
		productsCmd.Parse(os.Args[2:])
		listProducts(ctx, backend.NewProductClient(cfg.ProductServiceURL))
	case "inventory":
		inventoryCmd.Parse(os.Args[2:])
		codes := console.ParseSKUCodes(*skus)
		if len(codes) == 0 {
			fmt.Println("at least one SKU code is required")
			inventoryCmd.PrintDefaults()
			os.Exit(1)
		}
		checkInventory(ctx, backend.NewInventoryClient(cfg.InventoryServiceURL), codes)
	case "health":
		healthCmd.Parse(os.Args[2:])
		checkHealth(ctx, cfg)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func listProducts(ctx context.Context, c *backend.ProductClient) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to list products: %v", err)
	}
	if len(products) == 0 {
		fmt.Println("No products found.")
		return
	}
	for _, p := range products {
		fmt.Printf("%-38s %-30s %10s\n", p.ID, p.Name, console.FormatPrice(p.Price))
	}
}

func checkInventory(ctx context.Context, c *backend.InventoryClient, codes []string) {
	records, err := c.CheckInventory(ctx, codes)
	if err != nil {
		log.Fatalf("Failed to check inventory: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No inventory data found for the specified SKU codes.")
		return
	}
	for _, r := range records {
		status := "Out of Stock"
		if r.InStock {
			status = "In Stock"
		}
		fmt.Printf("%-30s %s\n", r.SkuCode, status)
	}
}

func checkHealth(ctx context.Context, cfg *config.Config) {
	m := health.NewMonitor([]health.Service{
		{Name: "product", Prober: backend.NewClient(cfg.ProductServiceURL)},
		{Name: "inventory", Prober: backend.NewClient(cfg.InventoryServiceURL)},
		{Name: "order", Prober: backend.NewClient(cfg.OrderServiceURL)},
	}, cfg.HealthCheckInterval)
	m.CheckAll(ctx)

	down := false
	for _, s := range m.Statuses() {
		fmt.Printf("%-10s %s\n", s.Name, s.Status)
		down = down || s.Status != health.StatusOnline
	}
	if down {
		os.Exit(1)
	}
}
