// Seed bootstraps a fresh deployment: schema, an admin account and a
// default grade-based class configuration for the current school year.
package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"sundayschool/internal/apperr"
	"sundayschool/internal/classconfig"
	"sundayschool/internal/config"
	"sundayschool/internal/schoolyear"
	"sundayschool/internal/store"
	"sundayschool/internal/user"
)

var defaultClasses = []classconfig.ClassDef{
	{ClassName: "JK-Gr1", SelectionMode: classconfig.ModeGrades, Grades: []string{"JK", "SK", "1"}},
	{ClassName: "Gr2-4", SelectionMode: classconfig.ModeGrades, Grades: []string{"2", "3", "4"}},
	{ClassName: "Gr5-6", SelectionMode: classconfig.ModeGrades, Grades: []string{"5", "6"}},
	{ClassName: "Gr7-8", SelectionMode: classconfig.ModeGrades, Grades: []string{"7", "8"}},
	{ClassName: "HighSchool", SelectionMode: classconfig.ModeGrades, Grades: []string{"9", "10", "11", "12"}},
}

func main() {
	adminName := flag.String("admin-name", "Administrator", "full name of the admin account")
	adminEmail := flag.String("admin-email", "", "email of the admin account to create")
	adminPassword := flag.String("admin-password", "", "password of the admin account to create")
	skipConfig := flag.Bool("skip-config", false, "do not seed the default class configuration")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}
	log.Println("schema ready")

	if *adminEmail != "" && *adminPassword != "" {
		if err := seedAdmin(ctx, db, cfg, *adminName, *adminEmail, *adminPassword); err != nil {
			log.Fatalf("admin setup failed: %v", err)
		}
	}

	if !*skipConfig {
		if err := seedClassConfig(ctx, db); err != nil {
			log.Fatalf("class configuration setup failed: %v", err)
		}
	}
}

func seedAdmin(ctx context.Context, db *store.DB, cfg config.App, name, email, password string) error {
	repo := user.NewRepository(db.Client)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = repo.Create(ctx, user.User{
		FullName:     name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	})
	if apperr.IsDuplicate(err) {
		log.Printf("admin %s already exists, skipping", email)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("admin %s created", email)
	return nil
}

func seedClassConfig(ctx context.Context, db *store.DB) error {
	svc := classconfig.NewService(classconfig.NewRepository(db.Client), nil)
	year := schoolyear.Current()

	if _, err := svc.Get(ctx, year); err == nil {
		log.Printf("class configuration for %s already exists, skipping", year)
		return nil
	} else if !apperr.IsNotFound(err) {
		return err
	}

	if _, _, err := svc.Upsert(ctx, year, defaultClasses); err != nil {
		return err
	}
	log.Printf("class configuration for %s created with %d classes", year, len(defaultClasses))
	return nil
}
