package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sahilchouksey/lms-api/model"
)

func progressCacheKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func cloneProgress(p *model.UserCourseProgress) *model.UserCourseProgress {
	if p == nil {
		return nil
	}
	b, _ := json.Marshal(p)
	var out model.UserCourseProgress
	_ = json.Unmarshal(b, &out)
	return &out
}

// CachedProgress returns the client's local copy of a progress record, if any.
// The copy reflects optimistic patches that may not be confirmed yet.
func (c *Client) CachedProgress(userID, courseID string) (*model.UserCourseProgress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.progress[progressCacheKey(userID, courseID)]
	if !ok {
		return nil, false
	}
	return cloneProgress(p), true
}

// GetUserCourseProgress fetches the progress record and refreshes the local
// cache with the server's copy.
func (c *Client) GetUserCourseProgress(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	path := fmt.Sprintf("/users/course-progress/%s/courses/%s", url.PathEscape(userID), url.PathEscape(courseID))
	var progress model.UserCourseProgress
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &progress); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.progress[progressCacheKey(userID, courseID)] = cloneProgress(&progress)
	c.mu.Unlock()

	return &progress, nil
}

// UpdateUserCourseProgress merges the section progress into the local cache
// before the call resolves, so the UI reflects the change immediately. If the
// call fails the speculative merge is undone and the previously cached value
// restored. Nothing is retried automatically.
func (c *Client) UpdateUserCourseProgress(ctx context.Context, userID, courseID string, sections []model.SectionProgress) (*model.UserCourseProgress, error) {
	key := progressCacheKey(userID, courseID)

	// Speculative local merge.
	c.mu.Lock()
	previous, hadCached := c.progress[key]
	var snapshot *model.UserCourseProgress
	if hadCached {
		snapshot = cloneProgress(previous)
		patched := cloneProgress(previous)
		patched.Sections = model.MergeSections(patched.Sections, sections)
		patched.OverallProgress = model.OverallProgress(patched.Sections)
		c.progress[key] = patched
	}
	c.mu.Unlock()

	path := fmt.Sprintf("/users/course-progress/%s/courses/%s", url.PathEscape(userID), url.PathEscape(courseID))
	body := map[string]interface{}{"sections": sections}

	var progress model.UserCourseProgress
	if _, err := c.do(ctx, http.MethodPut, path, nil, body, &progress); err != nil {
		// Roll the cache back to its pre-patch state.
		c.mu.Lock()
		if hadCached {
			c.progress[key] = snapshot
		} else {
			delete(c.progress, key)
		}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.progress[key] = cloneProgress(&progress)
	c.mu.Unlock()

	return &progress, nil
}
