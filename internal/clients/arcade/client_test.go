package arcade

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func searchMock() (*http.Response, error) {
	file, err := os.ReadFile("testdata/search.json")

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func Test_ArcadeClient_Search_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://api.arcadeboard.io/v2/jobs?"+
			"location=Austin&page=0&per_page=50&q=gameplay+programmer"
	})).Return(searchMock())

	client := NewClient()
	client.SetHTTPClient(mockClient)

	listings, err := client.Search(context.Background(), SearchParameters{
		Query:    "gameplay programmer",
		Location: "Austin",
		PerPage:  50,
	})
	assert.NoError(err)

	assert.Len(listings, 2)
	assert.Equal(48213, listings[0].ID)
	assert.Equal("Senior Gameplay Programmer", listings[0].Title)
	assert.Equal("Pixel Forge Interactive", listings[0].Studio)
	assert.True(listings[0].Verified)
	assert.Equal(2026, listings[0].PublishedAt.Year())
	assert.Equal("Level Designer", listings[1].Title)
}

func Test_ArcadeClient_Search_WithEmptyQuery_ShouldFail(t *testing.T) {

	client := NewClient()

	_, err := client.Search(context.Background(), SearchParameters{})
	assert.Error(t, err)
}

func Test_ArcadeClient_Search_WithTooDeepPagination_ShouldFail(t *testing.T) {

	client := NewClient()

	_, err := client.Search(context.Background(), SearchParameters{
		Query:   "gameplay",
		Page:    30,
		PerPage: 50,
	})
	assert.ErrorIs(t, err, ErrTooDeepPagination)
}

func Test_ArcadeClient_Search_OnServerError_ShouldReturnError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 503,
		Body:       io.NopCloser(bytes.NewBufferString("service unavailable")),
	}, nil)

	client := NewClient()
	client.SetHTTPClient(mockClient)

	_, err := client.Search(context.Background(), SearchParameters{Query: "gameplay"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
