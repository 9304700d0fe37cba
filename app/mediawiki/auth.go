package mediawiki

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Login signs in with a bot password. The session lives in the client's
// cookie jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var tokens queryResponse
	if err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"login"},
	}, &tokens); err != nil {
		return fmt.Errorf("failed to fetch login token: %w", err)
	}

	var resp struct {
		Login struct {
			Result string `json:"result"`
			Reason string `json:"reason"`
		} `json:"login"`
	}
	if err := c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {tokens.Query.Tokens.LoginToken},
	}, &resp); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("login failed: %s %s", resp.Login.Result, resp.Login.Reason)
	}
	return nil
}

type EditRequest struct {
	Title         string
	Text          string
	Summary       string
	BaseTimestamp time.Time
}

// Edit replaces the text of an existing page and returns the new revision
// id, or 0 when the text was unchanged.
func (c *Client) Edit(ctx context.Context, edit EditRequest) (int64, error) {
	var tokens queryResponse
	if err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
	}, &tokens); err != nil {
		return 0, fmt.Errorf("failed to fetch csrf token: %w", err)
	}

	params := url.Values{
		"action":   {"edit"},
		"title":    {edit.Title},
		"text":     {edit.Text},
		"summary":  {edit.Summary},
		"bot":      {"1"},
		"nocreate": {"1"},
		"token":    {tokens.Query.Tokens.CSRFToken},
	}
	if !edit.BaseTimestamp.IsZero() {
		params.Set("basetimestamp", edit.BaseTimestamp.UTC().Format(time.RFC3339))
	}

	var resp struct {
		Edit struct {
			Result   string `json:"result"`
			NewRevID int64  `json:"newrevid"`
			NoChange bool   `json:"nochange"`
		} `json:"edit"`
	}
	if err := c.post(ctx, params, &resp); err != nil {
		return 0, fmt.Errorf("failed to edit %s: %w", edit.Title, err)
	}
	if resp.Edit.Result != "Success" {
		return 0, fmt.Errorf("edit of %s failed: %s", edit.Title, resp.Edit.Result)
	}
	return resp.Edit.NewRevID, nil
}
