package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Homepage    string `json:"homepage"`
	Language    string `json:"language"`
	Stars       int64  `json:"stargazers_count"`
	Forks       int64  `json:"forks_count"`
	Watchers    int64  `json:"watchers_count"`
	OpenIssues  int64  `json:"open_issues_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Stats is the summary shown next to a project.
type Stats struct {
	Stars       int64  `json:"stars"`
	Forks       int64  `json:"forks"`
	Watchers    int64  `json:"watchers"`
	Issues      int64  `json:"issues"`
	Language    string `json:"language"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
}

func parseRepository(r gjson.Result) Repository {
	return Repository{
		Name:        r.Get("name").String(),
		FullName:    r.Get("full_name").String(),
		Description: r.Get("description").String(),
		HTMLURL:     r.Get("html_url").String(),
		Homepage:    r.Get("homepage").String(),
		Language:    r.Get("language").String(),
		Stars:       r.Get("stargazers_count").Int(),
		Forks:       r.Get("forks_count").Int(),
		Watchers:    r.Get("watchers_count").Int(),
		OpenIssues:  r.Get("open_issues_count").Int(),
		CreatedAt:   r.Get("created_at").String(),
		UpdatedAt:   r.Get("updated_at").String(),
	}
}

func (c *Client) Repository(ctx context.Context, owner, repo string) (*Repository, error) {
	body, err := c.get(ctx, repoPath(owner, repo), nil)
	if err != nil {
		return nil, err
	}
	r := parseRepository(gjson.ParseBytes(body))
	return &r, nil
}

// UserRepositories lists a user's public repositories, most recently updated
// first.
func (c *Client) UserRepositories(ctx context.Context, user string) ([]Repository, error) {
	query := url.Values{"type": {"public"}, "sort": {"updated"}}
	body, err := c.get(ctx, "/users/"+url.PathEscape(user)+"/repos", query)
	if err != nil {
		return nil, err
	}

	repos := []Repository{}
	gjson.ParseBytes(body).ForEach(func(_, value gjson.Result) bool {
		repos = append(repos, parseRepository(value))
		return true
	})
	return repos, nil
}

// Languages returns bytes of code per language.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	body, err := c.get(ctx, repoPath(owner, repo)+"/languages", nil)
	if err != nil {
		return nil, err
	}

	langs := map[string]int64{}
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		langs[key.String()] = value.Int()
		return true
	})
	return langs, nil
}

func (c *Client) RepositoryStats(ctx context.Context, owner, repo string) (*Stats, error) {
	r, err := c.Repository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Stars:       r.Stars,
		Forks:       r.Forks,
		Watchers:    r.Watchers,
		Issues:      r.OpenIssues,
		Language:    r.Language,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Description: r.Description,
		Homepage:    r.Homepage,
	}, nil
}

// ParseRepoURL extracts owner and repository from a github.com URL.
func ParseRepoURL(raw string) (owner, repo string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	if host := strings.ToLower(u.Host); host != "github.com" && host != "www.github.com" {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}
