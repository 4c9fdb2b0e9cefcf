package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pbaille/ideas/internal/domain"
)

const ideasPath = "/api/ideas"

func ideaPath(id domain.IdeaID) string {
	return ideasPath + "/" + url.PathEscape(id.String())
}

// ListIdeas fetches the whole collection in server order
func (c *Client) ListIdeas(ctx context.Context) ([]domain.Idea, error) {
	var ideas domain.Ideas
	if err := c.Do(ctx, ideasPath, nil, &ideas); err != nil {
		return nil, err
	}
	if ideas == nil {
		ideas = domain.Ideas{}
	}
	return ideas, nil
}

// CreateIdea posts a new idea; the response body is ignored
func (c *Client) CreateIdea(ctx context.Context, req domain.NewIdeaRequest) error {
	return c.Do(ctx, ideasPath, &RequestOptions{Method: http.MethodPost, Body: req}, nil)
}

// LikeIdea increments the like counter of an idea
func (c *Client) LikeIdea(ctx context.Context, id domain.IdeaID) error {
	return c.Do(ctx, ideaPath(id)+"/like", &RequestOptions{Method: http.MethodPost}, nil)
}

// DeleteIdea removes an idea. 204 and every other 2xx count as success.
func (c *Client) DeleteIdea(ctx context.Context, id domain.IdeaID) error {
	return c.Do(ctx, ideaPath(id), &RequestOptions{Method: http.MethodDelete}, nil)
}
