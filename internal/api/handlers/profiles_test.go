package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/testutil"
)

func TestProfileHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, userToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{
			name:           "admin sees all profiles",
			token:          adminToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "regular user is rejected",
			token:          userToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "anonymous is rejected",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/profiles"), nil, tt.token)

			resp, err := (&http.Client{}).Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var profiles []struct {
					ID    string `json:"id"`
					Email string `json:"email"`
					Role  string `json:"role"`
				}
				testutil.AssertJSONResponse(t, resp, &profiles)
				assert.Len(t, profiles, 2)
			}
		})
	}
}

func TestProfileHandler_UpdateRole(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndAuthenticate(t, ts)

	url := ts.APIURL("/profiles/" + user.ID.String() + "/role")

	// Invalid role value
	req := testutil.CreateAuthenticatedRequest(t, "PUT", url, map[string]string{"role": "SUPERUSER"}, adminToken)
	resp, err := (&http.Client{}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Promote to admin
	req = testutil.CreateAuthenticatedRequest(t, "PUT", url, map[string]string{"role": "ADMIN"}, adminToken)
	resp, err = (&http.Client{}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.Equal(t, user.ID.String(), updated.ID)
	assert.Equal(t, "ADMIN", updated.Role)

	// The promoted user can now reach the admin surface
	var promoted domain.Profile
	err = ts.DB.DB.Where("id = ?", user.ID).First(&promoted).Error
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)
}

func TestStatsHandler_Overview(t *testing.T) {
	ts := testutil.NewTestServer(t)

	landlord, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndAuthenticate(t, ts)

	testutil.NewListingBuilder().WithLandlord(landlord).Build(t, ts.DB.DB)
	testutil.NewListingBuilder().WithLandlord(landlord).Verified().Build(t, ts.DB.DB)
	testutil.NewListingBuilder().WithLandlord(landlord).Verified().Build(t, ts.DB.DB)

	// Regular users cannot read stats
	req := testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/stats"), nil, "")
	resp, err := (&http.Client{}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = testutil.CreateAuthenticatedRequest(t, "GET", ts.APIURL("/stats"), nil, adminToken)
	resp, err = (&http.Client{}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		TotalUsers       int64 `json:"totalUsers"`
		TotalListings    int64 `json:"totalListings"`
		VerifiedListings int64 `json:"verifiedListings"`
	}
	testutil.AssertJSONResponse(t, resp, &stats)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalListings)
	assert.Equal(t, int64(2), stats.VerifiedListings)
}
