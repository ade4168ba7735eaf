package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Sample data vocabulary for the demo e-commerce schema.
var (
	sampleCities     = []string{"Seoul", "Busan", "Incheon", "Daegu", "Daejeon", "Gwangju", "Ulsan"}
	sampleCountries  = []string{"South Korea", "USA", "Japan", "China", "Canada"}
	sampleCategories = []string{"Electronics", "Clothing", "Books", "Home & Garden", "Sports", "Toys"}
	sampleProducts   = map[string][]string{
		"Electronics":   {"Laptop", "Smartphone", "Tablet", "Headphones", "Camera", "Smart Watch"},
		"Clothing":      {"T-Shirt", "Jeans", "Jacket", "Sneakers", "Dress", "Sweater"},
		"Books":         {"Fiction Novel", "Programming Book", "Cookbook", "Biography", "Science Book", "History Book"},
		"Home & Garden": {"Table Lamp", "Garden Tools", "Bed Sheets", "Cooking Set", "Plant Pot", "Wall Clock"},
		"Sports":        {"Basketball", "Tennis Racket", "Yoga Mat", "Dumbbells", "Running Shoes", "Bicycle"},
		"Toys":          {"Action Figure", "Board Game", "Puzzle", "Doll", "Building Blocks", "RC Car"},
	}
	sampleStatuses = []string{"Completed", "Processing", "Shipped", "Cancelled"}
)

// Fixed seed keeps the generated database reproducible across runs.
const sampleSeed = 42

// adaptColumnTypes rewrites the DuckDB column types in a DDL statement
// for the active driver. SQLite has no DOUBLE type and Postgres only
// knows it as DOUBLE PRECISION.
func adaptColumnTypes(driver, stmt string) string {
	switch driver {
	case "sqlite":
		return strings.ReplaceAll(stmt, "DOUBLE", "REAL")
	case "pgx":
		return strings.ReplaceAll(stmt, "DOUBLE", "DOUBLE PRECISION")
	default:
		return stmt
	}
}

// SeedSampleData creates and populates the demo e-commerce tables:
// customers, products, orders and order_items.
func SeedSampleData(d *DB) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ddl := []string{
		`DROP TABLE IF EXISTS order_items`,
		`DROP TABLE IF EXISTS orders`,
		`DROP TABLE IF EXISTS products`,
		`DROP TABLE IF EXISTS customers`,
		`CREATE TABLE customers (
			customer_id INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(200) NOT NULL,
			city VARCHAR(100),
			country VARCHAR(100),
			signup_date DATE
		)`,
		`CREATE TABLE products (
			product_id INTEGER PRIMARY KEY,
			product_name VARCHAR(200) NOT NULL,
			category VARCHAR(100),
			price DOUBLE NOT NULL,
			stock_quantity INTEGER
		)`,
		`CREATE TABLE orders (
			order_id INTEGER PRIMARY KEY,
			customer_id INTEGER,
			order_date DATE,
			total_amount DOUBLE,
			status VARCHAR(50)
		)`,
		`CREATE TABLE order_items (
			order_item_id INTEGER PRIMARY KEY,
			order_id INTEGER,
			product_id INTEGER,
			quantity INTEGER,
			price DOUBLE
		)`,
	}
	for _, stmt := range ddl {
		if _, err := tx.Exec(adaptColumnTypes(d.driver, stmt)); err != nil {
			return fmt.Errorf("sample DDL failed: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	now := time.Now()

	insertCustomer := fmt.Sprintf(`INSERT INTO customers VALUES (%s, %s, %s, %s, %s, %s)`,
		d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4), d.placeholder(5), d.placeholder(6))
	for i := 1; i <= 100; i++ {
		signup := now.AddDate(0, 0, -(rng.Intn(365) + 1)).Format("2006-01-02")
		_, err := tx.Exec(insertCustomer,
			i,
			fmt.Sprintf("Customer %d", i),
			fmt.Sprintf("customer%d@email.com", i),
			sampleCities[rng.Intn(len(sampleCities))],
			sampleCountries[rng.Intn(len(sampleCountries))],
			signup,
		)
		if err != nil {
			return fmt.Errorf("failed to insert customer %d: %w", i, err)
		}
	}

	type product struct {
		id    int
		price float64
	}
	var catalogue []product

	insertProduct := fmt.Sprintf(`INSERT INTO products VALUES (%s, %s, %s, %s, %s)`,
		d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4), d.placeholder(5))
	productID := 1
	for _, category := range sampleCategories {
		for _, name := range sampleProducts[category] {
			price := roundCents(10 + rng.Float64()*490)
			_, err := tx.Exec(insertProduct, productID, name, category, price, rng.Intn(101))
			if err != nil {
				return fmt.Errorf("failed to insert product %d: %w", productID, err)
			}
			catalogue = append(catalogue, product{id: productID, price: price})
			productID++
		}
	}

	insertOrder := fmt.Sprintf(`INSERT INTO orders VALUES (%s, %s, %s, %s, %s)`,
		d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4), d.placeholder(5))
	insertItem := fmt.Sprintf(`INSERT INTO order_items VALUES (%s, %s, %s, %s, %s)`,
		d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4), d.placeholder(5))

	orderID := 1
	orderItemID := 1
	for customerID := 1; customerID <= 100; customerID++ {
		numOrders := rng.Intn(6)
		for n := 0; n < numOrders; n++ {
			orderDate := now.AddDate(0, 0, -(rng.Intn(180) + 1)).Format("2006-01-02")
			status := sampleStatuses[rng.Intn(len(sampleStatuses))]

			type item struct {
				productID int
				quantity  int
				price     float64
			}
			numItems := rng.Intn(5) + 1
			items := make([]item, 0, numItems)
			total := 0.0
			for k := 0; k < numItems; k++ {
				p := catalogue[rng.Intn(len(catalogue))]
				quantity := rng.Intn(3) + 1
				total += p.price * float64(quantity)
				items = append(items, item{productID: p.id, quantity: quantity, price: p.price})
			}

			if _, err := tx.Exec(insertOrder, orderID, customerID, orderDate, roundCents(total), status); err != nil {
				return fmt.Errorf("failed to insert order %d: %w", orderID, err)
			}
			for _, it := range items {
				if _, err := tx.Exec(insertItem, orderItemID, orderID, it.productID, it.quantity, it.price); err != nil {
					return fmt.Errorf("failed to insert order item %d: %w", orderItemID, err)
				}
				orderItemID++
			}
			orderID++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample data: %w", err)
	}

	if logger != nil {
		logger.Info("Sample data seeded",
			"customers", 100,
			"products", len(catalogue),
			"orders", orderID-1,
			"order_items", orderItemID-1)
	}
	return nil
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
