package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alextreichler/grocerycart/internal/models"
	"github.com/alextreichler/grocerycart/internal/store"
)

func main() {
	addProductCmd := flag.NewFlagSet("add-product", flag.ExitOnError)
	name := addProductCmd.String("name", "", "Product name")
	category := addProductCmd.String("category", "", "Product category")
	price := addProductCmd.Float64("price", 0, "Unit price")
	stock := addProductCmd.Int("stock", 0, "Initial stock")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-product' or 'seed' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-product":
		addProductCmd.Parse(os.Args[2:])
		if *name == "" {
			fmt.Println("name is required")
			addProductCmd.PrintDefaults()
			os.Exit(1)
		}
		addProduct(*name, *category, *price, *stock)
	case "seed":
		seed()
	default:
		fmt.Println("expected 'add-product' or 'seed' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./grocery.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func addProduct(name, category string, price float64, stock int) {
	db := openStore()
	p := &models.Product{Name: name, Category: category, Price: price, Stock: stock}
	if err := db.InsertProduct(context.Background(), p); err != nil {
		log.Fatalf("Failed to add product: %v", err)
	}
	fmt.Printf("Product '%s' created with id %d.\n", name, p.ID)
}

func seed() {
	db := openStore()
	sample := []models.Product{
		{Name: "Milk", Category: "Dairy", Price: 45.0, Stock: 50},
		{Name: "Bread", Category: "Bakery", Price: 30.0, Stock: 40},
		{Name: "Rice (1kg)", Category: "Grains", Price: 60.0, Stock: 30},
		{Name: "Eggs (6)", Category: "Poultry", Price: 60.0, Stock: 25},
		{Name: "Sugar (1kg)", Category: "Grocery", Price: 40.0, Stock: 20},
	}
	for i := range sample {
		if err := db.InsertProduct(context.Background(), &sample[i]); err != nil {
			log.Fatalf("Failed to seed products: %v", err)
		}
	}
	fmt.Printf("Seeded %d products.\n", len(sample))
}
