// Seeds a local database with an admin account and a starter catalog.
package main

import (
	"context"
	"log/slog"
	"os"

	"equipment-rental/internal/infra/db"
	"equipment-rental/internal/pkg/config"
	"equipment-rental/internal/pkg/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     string
}

type seedEquipment struct {
	name        string
	category    string
	description string
	stock       int32
}

var seedUsers = []seedUser{
	{email: "admin@example.com", password: "admin1234", name: "Admin", role: "admin"},
	{email: "employee@example.com", password: "employee1234", name: "Employee", role: "employee"},
}

var seedCatalog = []seedEquipment{
	{name: "MacBook Pro 14", category: "laptop", description: "M3 Pro, 18GB RAM", stock: 5},
	{name: "Dell U2723QE", category: "monitor", description: "27 inch 4K USB-C hub monitor", stock: 10},
	{name: "Logitech MX Keys", category: "keyboard", description: "Low-profile wireless keyboard", stock: 15},
	{name: "Logitech MX Master 3S", category: "mouse", description: "Ergonomic wireless mouse", stock: 15},
	{name: "Jabra Evolve2 65", category: "headset", description: "Wireless ANC headset", stock: 8},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := db.Migrate(pool); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := seed(ctx, pool); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	slog.Info("database seeded")
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, u := range seedUsers {
		hash, err := password.HashPassword(u.password)
		if err != nil {
			return err
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO users (email, password_hash, name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO NOTHING`,
			u.email, hash, u.name, u.role)
		if err != nil {
			return err
		}
	}

	for _, e := range seedCatalog {
		_, err := pool.Exec(ctx, `
			INSERT INTO equipment (name, category, description, stock)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (SELECT 1 FROM equipment WHERE name = $1)`,
			e.name, e.category, e.description, e.stock)
		if err != nil {
			return err
		}
	}

	return nil
}
