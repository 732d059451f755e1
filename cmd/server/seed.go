package main

import (
	"log/slog"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository/memory"
)

// seed loads the demo accounts and catalog. Passwords are deliberately
// plain: this is a throwaway single-process demo store.
func seed(catalog *memory.Catalog, users *memory.Users) {
	demoUsers := []entity.User{
		{Username: "admin", Password: "Admin123", IsAdmin: true, FullName: "Admin User", Email: "admin@markstore.kz", Phone: "+7 777 123 4567"},
		{Username: "ali", Password: "Ali123", FullName: "Ali Orinbasar", Email: "ali@mail.kz", Phone: "+7 707 765 4321"},
		{Username: "bobo", Password: "Bobo123", FullName: "Bobo User", Email: "bobo@example.com", Phone: "+7 705 123 4567"},
	}
	for _, u := range demoUsers {
		users.Create(u)
	}

	products := []entity.Product{
		{Name: "AirPods Pro", Price: 4990, Stock: 10, Description: "Wireless earbuds with great sound", ImageURL: "https://via.placeholder.com/600x400/4b6cb7/ffffff?text=AirPods+Pro", Category: "Audio", Rating: 4.8},
		{Name: "AirPods 3", Price: 4490, Stock: 8, Description: "True wireless earbuds", ImageURL: "https://via.placeholder.com/600x400/182848/ffffff?text=AirPods+3", Category: "Audio", Rating: 4.5},
		{Name: "AirPods 4", Price: 7990, Stock: 5, Description: "Next-gen AirPods", ImageURL: "https://via.placeholder.com/600x400/36d1dc/ffffff?text=AirPods+4", Category: "Audio", Rating: 4.9},
		{Name: "iPhone 14", Price: 399990, Stock: 7, Description: "Latest iPhone", ImageURL: "https://via.placeholder.com/600x400/5b86e5/ffffff?text=iPhone+14", Category: "Phones", Rating: 4.7},
		{Name: "Samsung Galaxy", Price: 299990, Stock: 12, Description: "Android flagship", ImageURL: "https://via.placeholder.com/600x400/2c3e50/ffffff?text=Galaxy", Category: "Phones", Rating: 4.6},
		{Name: "MacBook Pro", Price: 699990, Stock: 6, Description: "Powerful laptop for professionals", ImageURL: "https://via.placeholder.com/600x400/667eea/ffffff?text=MacBook+Pro", Category: "Laptops", Rating: 4.9},
	}
	for _, p := range products {
		catalog.Upsert(p)
	}

	slog.Info("Seeded demo data", "users", len(demoUsers), "products", len(products))
}
