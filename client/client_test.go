package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/lms-api/model"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
		"data":    data,
	})
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "Courses retrieved successfully", []model.Course{})
	}))
	defer server.Close()

	c := New(Config{
		BaseURL: server.URL,
		TokenProvider: func(ctx context.Context) (string, error) {
			return "session-token", nil
		},
	})

	_, err := c.ListCourses(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth)
}

func TestClientProceedsWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "Courses retrieved successfully", []model.Course{})
	}))
	defer server.Close()

	c := New(Config{
		BaseURL: server.URL,
		TokenProvider: func(ctx context.Context) (string, error) {
			return "", nil
		},
	})

	_, err := c.ListCourses(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/abc", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "Course retrieved successfully", model.Course{
			CourseID: "abc",
			Title:    "Go 101",
			Price:    2500,
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	course, err := c.GetCourse(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", course.CourseID)
	assert.Equal(t, "Go 101", course.Title)
	assert.Equal(t, 2500, course.Price)
}

func TestClientCategoryQuery(t *testing.T) {
	var gotCategory string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		writeEnvelope(w, http.StatusOK, "Courses retrieved successfully", []model.Course{})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	_, err := c.ListCourses(context.Background(), "Web Development")
	require.NoError(t, err)
	assert.Equal(t, "Web Development", gotCategory)
}

func TestClientTransportFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	// Nothing listens here; the connection is refused.
	c := New(Config{
		BaseURL:  "http://127.0.0.1:1",
		Notifier: notifier,
	})

	_, err := c.ListCourses(context.Background(), "")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrCodeFetch, apiErr.Code)
	assert.Zero(t, apiErr.Status)
	assert.Len(t, notifier.errors, 1)
}

func TestClientHTTPErrorSurfacesServerMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "Course not found", nil)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Notifier: notifier})
	_, err := c.GetCourse(context.Background(), "missing")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Course not found", apiErr.Message)
	assert.Empty(t, apiErr.Code)
	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "Course not found", notifier.errors[0])
}

func TestClientHTTPErrorWithoutBody(t *testing.T) {
	notifier := &recordingNotifier{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Notifier: notifier})
	_, err := c.ListCourses(context.Background(), "")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "502", apiErr.Message)
}

func TestClientNoContentIsSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Notifier: notifier})
	_, err := c.DeleteCourse(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, notifier.errors)
}

func TestClientMutationSuccessNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeEnvelope(w, http.StatusOK, "Courses retrieved successfully", []model.Course{})
			return
		}
		writeEnvelope(w, http.StatusCreated, "Course created successfully", model.Course{CourseID: "new"})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, Notifier: notifier})

	// Reads do not notify, even with a message present.
	_, err := c.ListCourses(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, notifier.successes)

	course, err := c.CreateCourse(context.Background(), "T1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "new", course.CourseID)
	require.Len(t, notifier.successes, 1)
	assert.Equal(t, "Course created successfully", notifier.successes[0])
}

func TestClientGetUploadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/c1/sections/s1/chapters/ch1/get-upload-url", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "intro.mp4", body["fileName"])
		assert.Equal(t, "video/mp4", body["fileType"])
		writeEnvelope(w, http.StatusOK, "Upload URL generated successfully", UploadURL{
			UploadURL: "https://bucket.s3.amazonaws.com/videos/uuid/intro.mp4?sig=x",
			VideoURL:  "https://cdn.example.com/videos/uuid/intro.mp4",
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL})
	urls, err := c.GetUploadURL(context.Background(), "c1", "s1", "ch1", "intro.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Contains(t, urls.UploadURL, "sig=x")
	assert.Contains(t, urls.VideoURL, "cdn.example.com")
}

func progressServer(t *testing.T, fail *bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if *fail {
			writeEnvelope(w, http.StatusInternalServerError, "Error updating user course progress", nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, "Course progress retrieved successfully", model.UserCourseProgress{
				UserID:   "U1",
				CourseID: "c1",
				Sections: []model.SectionProgress{
					{SectionID: "s1", Chapters: []model.ChapterProgress{
						{ChapterID: "ch1"},
						{ChapterID: "ch2"},
					}},
				},
			})
		case http.MethodPut:
			var body struct {
				Sections []model.SectionProgress `json:"sections"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			merged := model.MergeSections([]model.SectionProgress{
				{SectionID: "s1", Chapters: []model.ChapterProgress{
					{ChapterID: "ch1"},
					{ChapterID: "ch2"},
				}},
			}, body.Sections)
			writeEnvelope(w, http.StatusOK, "", model.UserCourseProgress{
				UserID:          "U1",
				CourseID:        "c1",
				Sections:        merged,
				OverallProgress: model.OverallProgress(merged),
			})
		}
	}))
}

func TestClientOptimisticProgressPatch(t *testing.T) {
	fail := false
	server := progressServer(t, &fail)
	defer server.Close()

	c := New(Config{BaseURL: server.URL})

	_, err := c.GetUserCourseProgress(context.Background(), "U1", "c1")
	require.NoError(t, err)

	cached, ok := c.CachedProgress("U1", "c1")
	require.True(t, ok)
	assert.Equal(t, 0.0, cached.OverallProgress)

	updated, err := c.UpdateUserCourseProgress(context.Background(), "U1", "c1", []model.SectionProgress{
		{SectionID: "s1", Chapters: []model.ChapterProgress{{ChapterID: "ch1", Completed: true}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, updated.OverallProgress)

	cached, ok = c.CachedProgress("U1", "c1")
	require.True(t, ok)
	assert.Equal(t, 0.5, cached.OverallProgress)
}

func TestClientOptimisticPatchRollsBackOnFailure(t *testing.T) {
	fail := false
	server := progressServer(t, &fail)
	defer server.Close()

	notifier := &recordingNotifier{}
	c := New(Config{BaseURL: server.URL, Notifier: notifier})

	_, err := c.GetUserCourseProgress(context.Background(), "U1", "c1")
	require.NoError(t, err)

	before, ok := c.CachedProgress("U1", "c1")
	require.True(t, ok)

	fail = true
	_, err = c.UpdateUserCourseProgress(context.Background(), "U1", "c1", []model.SectionProgress{
		{SectionID: "s1", Chapters: []model.ChapterProgress{{ChapterID: "ch1", Completed: true}}},
	})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	// The cached value is exactly what it was before the failed patch.
	after, ok := c.CachedProgress("U1", "c1")
	require.True(t, ok)
	assert.Equal(t, before, after)
	require.Len(t, notifier.errors, 1)
}

func TestClientUpdateWithoutCachedProgress(t *testing.T) {
	fail := false
	server := progressServer(t, &fail)
	defer server.Close()

	c := New(Config{BaseURL: server.URL})

	// No prior fetch, so there is nothing to patch speculatively; the call
	// still succeeds and seeds the cache from the server response.
	updated, err := c.UpdateUserCourseProgress(context.Background(), "U1", "c1", []model.SectionProgress{
		{SectionID: "s1", Chapters: []model.ChapterProgress{{ChapterID: "ch2", Completed: true}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, updated.OverallProgress)

	cached, ok := c.CachedProgress("U1", "c1")
	require.True(t, ok)
	assert.Equal(t, 0.5, cached.OverallProgress)
}
