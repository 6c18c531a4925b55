// Package roblox implements the group-rank authority client against the
// Roblox Open Cloud and legacy group APIs.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	sharedtypes "github.com/clanworks/clanbot/app/shared/types"
	"github.com/clanworks/clanbot/internal/attr"
)

const (
	defaultUsersBase  = "https://users.roblox.com"
	defaultGroupsBase = "https://groups.roblox.com"
	defaultCloudBase  = "https://apis.roblox.com"
)

var (
	// ErrMemberNotFound means the username does not resolve to a user in the
	// configured group. Expected outcome, not a fault.
	ErrMemberNotFound = errors.New("roblox: member not found in group")

	// ErrUnavailable means the authority could not be reached or answered
	// with a server error. Callers treat the member as unchanged.
	ErrUnavailable = errors.New("roblox: api unavailable")
)

// Client talks to the Roblox group APIs for a single group. All calls go
// through a circuit breaker so a dead authority fails sweeps fast instead of
// timing out per member.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger

	groupID    int64
	apiKey     string
	usersBase  string
	groupsBase string
	cloudBase  string
}

// Options configures a Client.
type Options struct {
	GroupID int64
	APIKey  string
	// BaseURL overrides all API hosts; used by tests.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a Client for the configured group.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient: httpClient,
		logger:     logger,
		groupID:    opts.GroupID,
		apiKey:     opts.APIKey,
		usersBase:  defaultUsersBase,
		groupsBase: defaultGroupsBase,
		cloudBase:  defaultCloudBase,
	}
	if opts.BaseURL != "" {
		c.usersBase = opts.BaseURL
		c.groupsBase = opts.BaseURL
		c.cloudBase = opts.BaseURL
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "roblox",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Roblox circuit breaker state change",
				attr.String("from", from.String()),
				attr.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// NotFound is a valid answer from a healthy API.
			return err == nil || errors.Is(err, ErrMemberNotFound)
		},
	})

	return c
}

// GetUserID resolves a Roblox username to a user ID.
func (c *Client) GetUserID(ctx context.Context, username sharedtypes.RobloxUsername) (int64, error) {
	body, err := json.Marshal(map[string]any{
		"usernames":          []string{string(username)},
		"excludeBannedUsers": true,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal username lookup: %w", err)
	}

	var resp struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.usersBase+"/v1/usernames/users", body, &resp); err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 {
		return 0, ErrMemberNotFound
	}
	return resp.Data[0].ID, nil
}

// GetMemberRank returns the member's current rank in the configured group.
func (c *Client) GetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername) (*sharedtypes.GroupRank, error) {
	userID, err := c.GetUserID(ctx, username)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Group struct {
				ID int64 `json:"id"`
			} `json:"group"`
			Role struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
				Rank int    `json:"rank"`
			} `json:"role"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/v1/users/%d/groups/roles", c.groupsBase, userID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	for _, g := range resp.Data {
		if g.Group.ID == c.groupID {
			return &sharedtypes.GroupRank{
				RoleID:     g.Role.ID,
				RankNumber: g.Role.Rank,
				Name:       g.Role.Name,
			}, nil
		}
	}
	return nil, ErrMemberNotFound
}

// GetGroupRoles lists all role definitions in the group.
func (c *Client) GetGroupRoles(ctx context.Context) ([]sharedtypes.GroupRole, error) {
	var resp struct {
		Roles []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Rank int    `json:"rank"`
		} `json:"roles"`
	}
	url := fmt.Sprintf("%s/v1/groups/%d/roles", c.groupsBase, c.groupID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	roles := make([]sharedtypes.GroupRole, 0, len(resp.Roles))
	for _, r := range resp.Roles {
		roles = append(roles, sharedtypes.GroupRole{
			RoleID:     r.ID,
			RankNumber: r.Rank,
			Name:       r.Name,
		})
	}
	return roles, nil
}

// SetMemberRank assigns the member the group role identified by rankRef via
// the Open Cloud membership API. Setting the same role twice is safe.
func (c *Client) SetMemberRank(ctx context.Context, username sharedtypes.RobloxUsername, rankRef int64) error {
	userID, err := c.GetUserID(ctx, username)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"role": strconv.FormatInt(rankRef, 10),
	})
	if err != nil {
		return fmt.Errorf("marshal rank update: %w", err)
	}

	url := fmt.Sprintf("%s/cloud/v2/groups/%d/memberships/%d", c.cloudBase, c.groupID, userID)
	return c.doJSON(ctx, http.MethodPatch, url, body, nil)
}

// VerifyCredentials checks that the group is reachable and the key works.
// Called once at startup before the sweep loop begins.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	roles, err := c.GetGroupRoles(ctx)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Roblox credentials verified",
		attr.Int64("group_id", c.groupID),
		attr.Int("roles", len(roles)),
	)
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, url, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
	case resp.StatusCode == http.StatusNotFound:
		return ErrMemberNotFound
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, url, resp.StatusCode, text)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
