package roblox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

const defaultBaseURL = "https://users.roblox.com"

// Client talks to the Roblox Users API. It resolves usernames to ids and
// reads public profiles, which is all the verification flow needs.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Profile is the public slice of a Roblox user profile.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// New creates a client with connection pooling and timeouts suited to a
// long-running bot process.
func New() *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   10,
	}

	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// ResolveID resolves a Roblox username to its user id.
func (c *Client) ResolveID(username string) (int64, error) {
	payload, err := json.Marshal(struct {
		Usernames          []string `json:"usernames"`
		ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
	}{Usernames: []string{username}})
	if err != nil {
		return 0, err
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/v1/usernames/users", "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve username %q: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to resolve username %q: status %s", username, resp.Status)
	}

	var result struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode username lookup response: %w", err)
	}
	if len(result.Data) == 0 {
		return 0, fmt.Errorf("no Roblox user named %q", username)
	}
	return result.Data[0].ID, nil
}

// GetProfile fetches the public profile of a Roblox user. Description holds
// the free-text bio the verification flow scans for the challenge phrase.
func (c *Client) GetProfile(userID int64) (*Profile, error) {
	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/v1/users/%d", c.BaseURL, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %d: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch profile %d: status %s", userID, resp.Status)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &profile, nil
}
