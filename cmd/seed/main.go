package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"dbs-store/internal/auth"
	"dbs-store/internal/config"
	"dbs-store/internal/db"
	"dbs-store/internal/logger"
	"dbs-store/internal/product"
	"dbs-store/internal/user"

	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	ownerEmail = "admin@dbs-store.ci"
	ownerName  = "Admin DBS"
	orgName    = "DBS Store"

	defaultOwnerPassword = "changeme123!"

	uniqueViolation = "23505"
)

type ownerStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
	MarkEmailVerified(ctx context.Context, id string) error
}

type orgStore interface {
	GetBySlug(ctx context.Context, slug string) (*auth.Organization, error)
	Create(ctx context.Context, name, slug string) (*auth.Organization, error)
	AddMember(ctx context.Context, orgID, userID string, role auth.Role) error
}

type productStore interface {
	Create(ctx context.Context, p *product.Product) error
}

func main() {
	withProducts := flag.Bool("products", false, "also insert the demo catalog")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer database.Close()

	ctx := context.Background()
	password := os.Getenv("SEED_OWNER_PASSWORD")
	if password == "" {
		password = defaultOwnerPassword
	}

	if err := seedOwner(ctx, user.NewRepository(database), auth.NewOrganizationRepository(database), password); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	if *withProducts {
		if err := seedProducts(ctx, product.NewService(product.NewRepository(database))); err != nil {
			log.Fatal("product seed failed", zap.Error(err))
		}
	}

	log.Info("seed complete", zap.String("email", ownerEmail))
	if password == defaultOwnerPassword {
		log.Warn("owner uses the default password, change it after first login")
	}
}

// seedOwner creates the back-office owner and the store organization. Running
// it again keeps existing rows and re-asserts the owner membership.
func seedOwner(ctx context.Context, users ownerStore, orgs orgStore, password string) error {
	log := logger.FromCtx(ctx)

	// 1️⃣ Owner account
	owner, err := users.FindByEmail(ctx, ownerEmail)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("owner password: %w", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		owner, err = users.Create(ctx, user.CreateParams{
			Name:          ownerName,
			Email:         ownerEmail,
			PasswordHash:  &hash,
			EmailVerified: true,
		})
		if err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		log.Info("owner created", zap.String("user_id", owner.ID))
	case err != nil:
		return err
	case !owner.EmailVerified:
		if err := users.MarkEmailVerified(ctx, owner.ID); err != nil {
			return err
		}
	}

	// 2️⃣ Store organization
	org, err := orgs.GetBySlug(ctx, auth.StoreOrgSlug)
	if errors.Is(err, auth.ErrOrganizationNotFound) {
		org, err = orgs.Create(ctx, orgName, auth.StoreOrgSlug)
		if err == nil {
			log.Info("organization created", zap.String("slug", org.Slug))
		}
	}
	if err != nil {
		return fmt.Errorf("store organization: %w", err)
	}

	// 3️⃣ Membership
	return orgs.AddMember(ctx, org.ID, owner.ID, auth.RoleOwner)
}

// seedProducts inserts the demo catalog. Products whose slug already exists are skipped.
func seedProducts(ctx context.Context, products productStore) error {
	log := logger.FromCtx(ctx)

	created := 0
	for _, p := range demoCatalog() {
		p.Slug = slug.Make(p.Name)
		p.IsActive = true

		err := products.Create(ctx, &p)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Debug("product already seeded", zap.String("slug", p.Slug))
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", p.Slug, err)
		}
		created++
	}

	log.Info("demo catalog seeded", zap.Int("created", created))
	return nil
}

func demoCatalog() []product.Product {
	sub := func(s string) *string { return &s }
	price := func(v int64) *int64 { return &v }
	badge := func(b product.Badge) *product.Badge { return &b }

	return []product.Product{
		{
			Name: "iPhone 15 Pro 256 Go", CategoryID: "smartphones", SubcategoryID: sub("iphone"),
			Price: 849000, OldPrice: price(899000), Brand: "Apple", Stock: 12, Badge: badge(product.BadgePromo),
			Images:      []string{"/images/produits/iphone-15-pro.webp"},
			Description: "Titane, puce A17 Pro et triple capteur 48 Mpx.",
			Specs:       map[string]string{"Écran": "6,1 pouces", "Stockage": "256 Go"},
		},
		{
			Name: "Samsung Galaxy S24", CategoryID: "smartphones", SubcategoryID: sub("samsung-galaxy"),
			Price: 599000, Brand: "Samsung", Stock: 20, Badge: badge(product.BadgeNew),
			Images:      []string{"/images/produits/galaxy-s24.webp"},
			Description: "Galaxy AI, écran Dynamic AMOLED 2X.",
			Specs:       map[string]string{"Écran": "6,2 pouces", "Stockage": "128 Go"},
		},
		{
			Name: "Sony WH-1000XM5", CategoryID: "audio", SubcategoryID: sub("casques"),
			Price: 249000, Brand: "Sony", Stock: 8, Badge: badge(product.BadgePopular),
			Images:      []string{"/images/produits/sony-wh1000xm5.webp"},
			Description: "Casque sans fil à réduction de bruit.",
			Specs:       map[string]string{"Autonomie": "30 h"},
		},
		{
			Name: "MacBook Air M3 13 pouces", CategoryID: "ordinateurs", SubcategoryID: sub("laptops"),
			Price: 1099000, OldPrice: price(1149000), Brand: "Apple", Stock: 5,
			Images:      []string{"/images/produits/macbook-air-m3.webp"},
			Description: "Puce M3, 8 Go de mémoire unifiée, SSD 256 Go.",
			Specs:       map[string]string{"Mémoire": "8 Go", "Stockage": "256 Go"},
		},
	}
}
