package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	name     string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
		name:     fmt.Sprintf("Test User %s", suffix),
		role:     domain.RoleUser,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithName sets the profile name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithRole sets the profile role
func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user and its profile in the database and returns the
// user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := &domain.Profile{
		ID:        user.ID,
		Email:     b.email,
		Name:      b.name,
		Role:      b.role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via the API and returns the user and
// access token. The role is applied directly in the database afterwards
// since registration always yields USER.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":    b.email,
		"password": b.password,
		"name":     b.name,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:    userID,
		Email: authResp.User.Email,
	}

	if b.role != domain.RoleUser {
		err := ts.DB.DB.Model(&domain.Profile{}).
			Where("id = ?", userID).
			Update("role", b.role).Error
		if err != nil {
			t.Fatalf("failed to set role: %v", err)
		}
	}

	return user, authResp.AccessToken
}

// ListingBuilder creates test listings with a builder pattern
type ListingBuilder struct {
	title     string
	price     int
	location  string
	rooms     int
	amenities []string
	landlord  *domain.User
	verified  bool
	createdAt time.Time
}

// NewListingBuilder creates a new ListingBuilder with default values
func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		title:     fmt.Sprintf("Listing %s", uuid.New().String()[:6]),
		price:     1200,
		location:  "Braamfontein, Johannesburg",
		rooms:     2,
		amenities: []string{"wifi"},
		createdAt: time.Now(),
	}
}

// WithTitle sets the title
func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.title = title
	return b
}

// WithPrice sets the monthly price
func (b *ListingBuilder) WithPrice(price int) *ListingBuilder {
	b.price = price
	return b
}

// WithLocation sets the location
func (b *ListingBuilder) WithLocation(location string) *ListingBuilder {
	b.location = location
	return b
}

// WithRooms sets the room count
func (b *ListingBuilder) WithRooms(rooms int) *ListingBuilder {
	b.rooms = rooms
	return b
}

// WithAmenities sets the amenity list
func (b *ListingBuilder) WithAmenities(amenities ...string) *ListingBuilder {
	b.amenities = amenities
	return b
}

// WithLandlord sets the owning user
func (b *ListingBuilder) WithLandlord(user *domain.User) *ListingBuilder {
	b.landlord = user
	return b
}

// Verified marks the listing verified
func (b *ListingBuilder) Verified() *ListingBuilder {
	b.verified = true
	return b
}

// WithCreatedAt sets the creation timestamp (for ordering tests)
func (b *ListingBuilder) WithCreatedAt(at time.Time) *ListingBuilder {
	b.createdAt = at
	return b
}

// Build creates the listing in the database
func (b *ListingBuilder) Build(t *testing.T, db *gorm.DB) *domain.Listing {
	t.Helper()

	if b.landlord == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.landlord = user
	}

	listing := &domain.Listing{
		ID:              uuid.New(),
		Title:           b.title,
		Description:     "A test listing.",
		Price:           b.price,
		Location:        b.location,
		Rooms:           b.rooms,
		Amenities:       domain.EncodeStringList(b.amenities),
		Images:          domain.EncodeStringList(nil),
		LandlordID:      b.landlord.ID,
		LandlordName:    "Test Landlord",
		LandlordContact: b.landlord.Email,
		Verified:        b.verified,
		CreatedAt:       b.createdAt,
		UpdatedAt:       b.createdAt,
	}

	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("failed to create listing: %v", err)
	}

	return listing
}

// SeedListings creates N listings owned by the same landlord, each created
// one second after the last so ordering is deterministic
func SeedListings(t *testing.T, db *gorm.DB, landlord *domain.User, count int) []*domain.Listing {
	t.Helper()

	base := time.Now().Add(-time.Duration(count) * time.Second)
	listings := make([]*domain.Listing, count)
	for i := 0; i < count; i++ {
		listings[i] = NewListingBuilder().
			WithTitle(fmt.Sprintf("Seed Listing %d", i)).
			WithLandlord(landlord).
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			Build(t, db)
	}
	return listings
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
