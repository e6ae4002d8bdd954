// Package splitwise is a thin client for the Splitwise v3.0 REST API,
// covering the handful of endpoints this application needs: group membership,
// expense listing, creation and deletion, and the current user's friends.
package splitwise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/dxue2012/bayclub-to-splitwise/internal/dateutils"
	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// DefaultBaseURL is the production Splitwise API endpoint.
const DefaultBaseURL = "https://secure.splitwise.com/api/v3.0"

// Client talks to the Splitwise API with an OAuth2 bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a client authenticated with the given access token. An
// empty baseURL selects the production endpoint.
func NewClient(ctx context.Context, accessToken, baseURL string, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return NewClientWithHTTP(oauth2.NewClient(ctx, source), baseURL, logger)
}

// NewClientWithHTTP creates a client over an explicit HTTP client and base
// URL. Tests point this at a local server.
func NewClientWithHTTP(httpClient *http.Client, baseURL string, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// User is a Splitwise account as returned by the user and friends endpoints.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName concatenates first and last name the way group membership does.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// GroupExpense is an existing expense in a group, as reported by the listing
// endpoint.
type GroupExpense struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	Date        string `json:"date"`
	Details     string `json:"details"`
	DeletedAt   string `json:"deleted_at"`
}

// errorEnvelope is the error object Splitwise embeds in 200 responses.
type errorEnvelope struct {
	Errors map[string][]string `json:"errors"`
}

func (e errorEnvelope) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	var parts []string
	for field, messages := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return fmt.Errorf("splitwise rejected the request: %s", strings.Join(parts, ", "))
}

// GetGroupMembers fetches the members of a group and returns a mapping from
// full display name to Splitwise user ID.
func (c *Client) GetGroupMembers(ctx context.Context, groupID int64) (map[string]int64, error) {
	var payload struct {
		Group struct {
			Members []User `json:"members"`
		} `json:"group"`
	}
	if err := c.get(ctx, fmt.Sprintf("/get_group/%d", groupID), &payload); err != nil {
		return nil, fmt.Errorf("failed to get group %d: %w", groupID, err)
	}

	nameToID := make(map[string]int64, len(payload.Group.Members))
	for _, member := range payload.Group.Members {
		nameToID[member.FullName()] = member.ID
	}
	return nameToID, nil
}

// GetExpenses fetches all expenses in a group.
func (c *Client) GetExpenses(ctx context.Context, groupID int64) ([]GroupExpense, error) {
	var payload struct {
		Expenses []GroupExpense `json:"expenses"`
	}
	path := fmt.Sprintf("/get_expenses?group_id=%d", groupID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("failed to get expenses for group %d: %w", groupID, err)
	}
	return payload.Expenses, nil
}

// GetCurrentUser fetches the authenticated user.
func (c *Client) GetCurrentUser(ctx context.Context) (User, error) {
	var payload struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/get_current_user", &payload); err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return payload.User, nil
}

// GetFriends fetches the authenticated user's friends.
func (c *Client) GetFriends(ctx context.Context) ([]User, error) {
	var payload struct {
		Friends []User `json:"friends"`
	}
	if err := c.get(ctx, "/get_friends", &payload); err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return payload.Friends, nil
}

// CreateExpense submits one expense. Shares are encoded in Splitwise's
// indexed form-field format, every monetary value formatted to exactly two
// decimal places. A 200 response can still carry an embedded error object,
// which is checked and surfaced.
func (c *Client) CreateExpense(ctx context.Context, expense models.Expense) error {
	form := url.Values{}
	form.Set("cost", expense.Amount.StringFixed(2))
	form.Set("description", expense.Description)
	form.Set("details", expense.Details)
	form.Set("date", dateutils.ToISODate(expense.Date))
	form.Set("group_id", strconv.FormatInt(expense.GroupID, 10))

	for i, share := range expense.Shares {
		prefix := fmt.Sprintf("users__%d__", i)
		form.Set(prefix+"user_id", strconv.FormatInt(share.MemberID, 10))
		form.Set(prefix+"paid_share", share.Paid.StringFixed(2))
		form.Set(prefix+"owed_share", share.Owed.StringFixed(2))
	}

	var envelope errorEnvelope
	if err := c.postForm(ctx, "/create_expense", form, &envelope); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return envelope.err()
}

// DeleteExpense deletes one expense by ID.
func (c *Client) DeleteExpense(ctx context.Context, expenseID int64) error {
	var envelope errorEnvelope
	path := fmt.Sprintf("/delete_expense/%d", expenseID)
	if err := c.postForm(ctx, path, url.Values{}, &envelope); err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", expenseID, err)
	}
	return envelope.err()
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
