package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/thando/renthub/internal/session"
)

var locations = []string{
	"Braamfontein, Johannesburg",
	"Hatfield, Pretoria",
	"Observatory, Cape Town",
	"Westville, Durban",
	"Summerstrand, Gqeberha",
	"Potchefstroom Central",
}

var amenityPool = [][]string{
	{"wifi", "furnished"},
	{"wifi", "parking", "laundry"},
	{"furnished", "security"},
	{"wifi", "parking", "furnished", "security"},
	{"laundry"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "browse":
		browseCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Seeder - Development tool for populating rental listings

USAGE:
  seed <command> [options]

COMMANDS:
  populate  Register landlord accounts and create varied listings
  browse    Run a few filtered listing queries against the API
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Create 3 landlords with 4 listings each
  seed populate

  # Create 5 landlords with 8 listings each
  seed populate --landlords=5 --listings=8

  # Exercise the public search surface
  seed browse --location=Braamfontein`)
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	landlords := fs.Int("landlords", 3, "Number of landlord accounts to create")
	listings := fs.Int("listings", 4, "Number of listings per landlord")
	fs.Parse(args)

	ctx := context.Background()

	for i := 0; i < *landlords; i++ {
		client := NewAPIClient(apiURL)
		store := session.NewStore(client)

		email := fmt.Sprintf("landlord_%d_%d@example.com", time.Now().UnixNano()%100000, i)
		if err := store.SignUp(ctx, email, "testpassword123"); err != nil {
			fmt.Printf("Error: sign up %s: %v\n", email, err)
			os.Exit(1)
		}
		current := store.Current()
		fmt.Printf("Created landlord %s (%s)\n", email, current.UserID)

		for j := 0; j < *listings; j++ {
			listing, err := client.CreateListing(ctx, listingBody(i, j, email))
			if err != nil {
				fmt.Printf("Error: create listing: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("  listing %s: %s (R%d, %d rooms)\n", listing.ID, listing.Title, listing.Price, listing.Rooms)
		}

		if err := store.SignOut(ctx); err != nil {
			fmt.Printf("Error: sign out: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Done: %d landlords, %d listings\n", *landlords, *landlords**listings)
}

func browseCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	location := fs.String("location", "", "Location substring to search for")
	fs.Parse(args)

	ctx := context.Background()
	client := NewAPIClient(apiURL)

	queries := []string{
		"",
		"priceRange=LOW",
		"priceRange=MEDIUM&rooms=2",
		"amenities=wifi,parking",
	}
	if *location != "" {
		queries = append(queries, "search="+*location)
	}

	for _, q := range queries {
		results, err := client.ListListings(ctx, q)
		if err != nil {
			fmt.Printf("Error: query %q: %v\n", q, err)
			os.Exit(1)
		}
		label := q
		if label == "" {
			label = "(all)"
		}
		fmt.Printf("%-40s %d results\n", label, len(results))
	}
}

func listingBody(landlordIdx, listingIdx int, email string) map[string]any {
	price := 600 + (landlordIdx*7+listingIdx*3)%5*450
	rooms := 1 + (landlordIdx+listingIdx)%3
	location := locations[(landlordIdx*3+listingIdx)%len(locations)]
	amenities := amenityPool[(landlordIdx+listingIdx)%len(amenityPool)]

	return map[string]any{
		"title":           fmt.Sprintf("%d-room unit in %s", rooms, location),
		"description":     "Seeded listing for development.",
		"price":           price,
		"location":        location,
		"rooms":           rooms,
		"amenities":       amenities,
		"images":          []string{},
		"landlordName":    fmt.Sprintf("Landlord %d", landlordIdx+1),
		"landlordContact": email,
	}
}
