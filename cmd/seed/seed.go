// Package main seeds the database with mock users and posts for local
// development. Running it twice is safe, existing users are left alone.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

type seedUser struct {
	username  string
	email     string
	firstName string
	lastName  string
}

var seedUsers = []seedUser{
	{username: "alice_dev", email: "alice@example.com", firstName: "Alice", lastName: "Johnson"},
	{username: "bob_coder", email: "bob@example.com", firstName: "Bob", lastName: "Smith"},
}

var samplePosts = []string{
	"Finally beat my chess mentor in a proper game last night! Six months of weekly games and the tactical patterns finally clicked into place.",
	"Spent the afternoon at the local pool hall and had one of those magical sessions where everything just flows. Won five games straight against the regulars.",
	"Discovered a new jazz club downtown and the live music absolutely blew me away. Already booked tickets for next week's show.",
	"My salsa dancing classes are finally paying off! First social dance where I felt confident leading without thinking about my feet.",
	"Finished my first proper charcoal portrait today after weeks of practice sketches. Drawing people is like telling their story through shadows.",
	"Watched the World Snooker Championship last weekend and I'm completely hooked. Booked lessons with the club pro starting next week.",
	"My guitar practice is starting to pay off after months of sore fingertips. Finally played through an entire song without stopping!",
	"Attended my first chess tournament last Saturday. Got crushed in most games but learned more in one day than months of casual play.",
	"Started taking watercolor classes. The instructor keeps saying embrace the accidents, and it's teaching me to be less controlling.",
	"Hit my first 147 break in snooker practice today! The old-timers just smiled and nodded. Now to try it under actual pressure.",
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("No .env file found, using environment variables from system")
	}

	pool := connect()
	defer pool.Close()

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal("error beginning transaction: ", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, u := range seedUsers {
		userId, created, err := getOrCreateUser(ctx, tx, u)
		if err != nil {
			log.Fatal("error seeding user ", u.username, ": ", err)
		}
		if created {
			log.Info("Created user: ", u.username)
		} else {
			log.Info("User already exists: ", u.username)
		}

		if err := ensureProfile(ctx, tx, userId); err != nil {
			log.Fatal("error seeding profile for ", u.username, ": ", err)
		}

		if err := topUpPosts(ctx, tx, userId, 5); err != nil {
			log.Fatal("error seeding posts for ", u.username, ": ", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal("error committing seed data: ", err)
	}

	log.Info("Successfully created mock data!")
}

func connect() *pgxpool.Pool {
	var (
		dbHost     = os.Getenv("DB_HOST")
		dbPort     = os.Getenv("DB_PORT")
		dbUser     = os.Getenv("DB_USER")
		dbPassword = os.Getenv("DB_PASS")
		dbName     = os.Getenv("DB_NAME")
	)

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		log.Fatal("database environment variables not set")
	}

	url := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName)
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}

	return pool
}

func getOrCreateUser(ctx context.Context, tx pgx.Tx, u seedUser) (uuid.UUID, bool, error) {
	var userId uuid.UUID
	err := tx.QueryRow(ctx, "SELECT user_id FROM social_schema.users WHERE username = $1", u.username).Scan(&userId)
	if err == nil {
		return userId, false, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, false, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, false, err
	}

	userId = uuid.New()
	queryString := "INSERT INTO social_schema.users (user_id, username, email, first_name, last_name, password, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, true, $7)"
	if _, err := tx.Exec(ctx, queryString, userId, u.username, u.email, u.firstName, u.lastName, hashedPassword, time.Now()); err != nil {
		return uuid.Nil, false, err
	}

	return userId, true, nil
}

func ensureProfile(ctx context.Context, tx pgx.Tx, userId uuid.UUID) error {
	queryString := "INSERT INTO social_schema.user_profiles (profile_id, user_id, is_email_verified, verification_token, token_issued_at) VALUES ($1, $2, true, $3, NULL) ON CONFLICT (user_id) DO NOTHING"
	_, err := tx.Exec(ctx, queryString, uuid.New(), userId, uuid.New())
	return err
}

// topUpPosts creates posts with timestamps scattered over the past week
// until the user has at least target posts.
func topUpPosts(ctx context.Context, tx pgx.Tx, userId uuid.UUID, target int) error {
	var existing int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM social_schema.posts WHERE author_id = $1", userId).Scan(&existing); err != nil {
		return err
	}

	for i := existing; i < target; i++ {
		postTime := time.Now().
			Add(-time.Duration(rand.Intn(8)) * 24 * time.Hour).
			Add(-time.Duration(rand.Intn(24)) * time.Hour).
			Add(-time.Duration(rand.Intn(60)) * time.Minute)

		message := samplePosts[rand.Intn(len(samplePosts))]
		queryString := "INSERT INTO social_schema.posts (post_id, author_id, message, created_at) VALUES ($1, $2, $3, $4)"
		if _, err := tx.Exec(ctx, queryString, uuid.New(), userId, message, postTime); err != nil {
			return err
		}
	}

	return nil
}
