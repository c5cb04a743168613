package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"moco-web/config"
	"moco-web/internal/database"
	"moco-web/internal/models"
	"moco-web/internal/repository"
	"moco-web/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// Command flags
	createUser  = flag.Bool("create", false, "Create a new user")
	deleteUser  = flag.Bool("delete", false, "Delete a user")
	makeAdmin   = flag.Bool("make-admin", false, "Make user an admin")
	removeAdmin = flag.Bool("remove-admin", false, "Remove admin privileges")
	deactivate  = flag.Bool("deactivate", false, "Deactivate a user")
	activate    = flag.Bool("activate", false, "Reactivate a user")
	listUsers   = flag.Bool("list", false, "List all users")

	// User data flags
	email    = flag.String("email", "", "User's email")
	password = flag.String("password", "", "User's password")
	name     = flag.String("name", "", "User's name")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.GetDB())

	switch {
	case *createUser:
		return handleCreateUser(userRepo)
	case *deleteUser:
		return handleDeleteUser(userRepo)
	case *makeAdmin:
		return handleSetAdmin(userRepo, true)
	case *removeAdmin:
		return handleSetAdmin(userRepo, false)
	case *deactivate:
		return handleSetActive(userRepo, false)
	case *activate:
		return handleSetActive(userRepo, true)
	case *listUsers:
		return handleListUsers(userRepo)
	default:
		printUsage()
		return nil
	}
}

func handleCreateUser(userRepo *repository.UserRepository) error {
	if *email == "" || *password == "" || *name == "" {
		return fmt.Errorf("email, password, and name are required")
	}
	if msg := validation.ValidateEmail(*email); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	if msg := validation.ValidatePassword(*password); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     *email,
		Password:  string(hashedPassword),
		Name:      *name,
		Provider:  "local",
		Accesses:  models.StringArray{string(models.AccessUser)},
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := userRepo.CreateUser(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Successfully created user: %s\n", user.Email)
	return nil
}

func handleDeleteUser(userRepo *repository.UserRepository) error {
	user, err := findUserByEmailFlag(userRepo)
	if err != nil {
		return err
	}

	if err := userRepo.DeleteUser(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("Successfully deleted user: %s\n", user.Email)
	return nil
}

func handleSetAdmin(userRepo *repository.UserRepository, admin bool) error {
	user, err := findUserByEmailFlag(userRepo)
	if err != nil {
		return err
	}

	newAccesses := make(models.StringArray, 0, len(user.Accesses)+1)
	for _, access := range user.Accesses {
		if access != string(models.AccessAdmin) {
			newAccesses = append(newAccesses, access)
		}
	}
	if admin {
		newAccesses = append(newAccesses, string(models.AccessAdmin))
	}
	user.Accesses = newAccesses

	if err := userRepo.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if admin {
		fmt.Printf("Successfully made user admin: %s\n", user.Email)
	} else {
		fmt.Printf("Successfully removed admin privileges from user: %s\n", user.Email)
	}
	return nil
}

func handleSetActive(userRepo *repository.UserRepository, active bool) error {
	user, err := findUserByEmailFlag(userRepo)
	if err != nil {
		return err
	}

	user.IsActive = active
	if err := userRepo.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if active {
		fmt.Printf("Successfully reactivated user: %s\n", user.Email)
	} else {
		fmt.Printf("Successfully deactivated user: %s\n", user.Email)
	}
	return nil
}

func handleListUsers(userRepo *repository.UserRepository) error {
	users, err := userRepo.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	fmt.Printf("%-36s  %-30s  %-10s  %-8s  %s\n", "ID", "EMAIL", "PROVIDER", "ACTIVE", "ACCESSES")
	for _, user := range users {
		fmt.Printf("%-36s  %-30s  %-10s  %-8t  %v\n", user.ID, user.Email, user.Provider, user.IsActive, user.Accesses)
	}
	return nil
}

func findUserByEmailFlag(userRepo *repository.UserRepository) (*models.User, error) {
	if *email == "" {
		return nil, fmt.Errorf("email is required")
	}

	user, err := userRepo.GetUserByEmail(*email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Create user:    cli -create -email=user@example.com -password=secret -name=\"Jane Doe\"")
	fmt.Println("  Delete user:    cli -delete -email=user@example.com")
	fmt.Println("  Make admin:     cli -make-admin -email=user@example.com")
	fmt.Println("  Remove admin:   cli -remove-admin -email=user@example.com")
	fmt.Println("  Deactivate:     cli -deactivate -email=user@example.com")
	fmt.Println("  Reactivate:     cli -activate -email=user@example.com")
	fmt.Println("  List users:     cli -list")
}
