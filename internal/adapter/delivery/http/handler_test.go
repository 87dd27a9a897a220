package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vadimbarashkov/link-shortener/internal/entity"

	httpMock "github.com/vadimbarashkov/link-shortener/mocks/http"
)

var testLinkID = uuid.MustParse("0192a4a8-7f3e-7c1a-9d2b-5e6f7a8b9c0d")

type HandlersTestSuite struct {
	suite.Suite
	logger           *httplog.Logger
	linkUseCaseMock  *httpMock.MockLinkUseCase
	linkExporterMock *httpMock.MockLinkExporter
	server           *httptest.Server
	e                *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.linkUseCaseMock = httpMock.NewMockLinkUseCase(suite.T())
	suite.linkExporterMock = httpMock.NewMockLinkExporter(suite.T())

	router := NewRouter(suite.logger, suite.linkUseCaseMock, suite.linkExporterMock, []string{"https://*"})
	suite.server = httptest.NewServer(router)
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.linkUseCaseMock.AssertExpectations(suite.T())
	suite.linkExporterMock.AssertExpectations(suite.T())
}

func testLink() *entity.ShortLink {
	return &entity.ShortLink{
		ID:          testLinkID,
		Name:        "docs",
		URL:         "https://example.com",
		AccessCount: 0,
		CreatedAt:   time.Date(2024, 10, 16, 8, 30, 0, 0, time.UTC),
	}
}

func (suite *HandlersTestSuite) TestRoot() {
	suite.Run("success", func() {
		suite.e.GET("/").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("message", "Hello World")
	})
}

func (suite *HandlersTestSuite) TestMetrics() {
	suite.Run("success", func() {
		suite.e.GET("/metrics").
			Expect().
			Status(http.StatusOK)
	})
}

func (suite *HandlersTestSuite) TestListLinks() {
	const path = "/url"

	suite.Run("invalid page", func() {
		resp := suite.e.GET(path).
			WithQuery("page", "first").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "page").
			ContainsKey("message")
	})

	suite.Run("page size too large", func() {
		resp := suite.e.GET(path).
			WithQuery("pageSize", 101).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "pageSize").
			ContainsKey("message")
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything, entity.ListParams{Page: 1, PageSize: entity.DefaultPageSize}).
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("empty page", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything, entity.ListParams{Search: "none", Page: 3, PageSize: 10}).
			Once().
			Return(&entity.LinkPage{Total: 4, Page: 3, PageSize: 10}, nil)

		resp := suite.e.GET(path).
			WithQuery("search", "none").
			WithQuery("page", 3).
			WithQuery("pageSize", 10).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.Value("data").Array().IsEmpty()
		resp.HasValue("total", 4)
		resp.HasValue("page", 3)
		resp.HasValue("pageSize", 10)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("ListLinks", mock.Anything, entity.ListParams{Search: "do", Page: 1, PageSize: entity.DefaultPageSize}).
			Once().
			Return(&entity.LinkPage{
				Links:    []entity.ShortLink{*testLink()},
				Total:    1,
				Page:     1,
				PageSize: entity.DefaultPageSize,
			}, nil)

		resp := suite.e.GET(path).
			WithQuery("search", "do").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		link := resp.Value("data").Array().Value(0).Object()
		link.HasValue("id", testLinkID.String())
		link.HasValue("name", "docs")
		link.HasValue("url", "https://example.com")
		link.HasValue("count_access", 0)
		link.ContainsKey("created_at")
		resp.HasValue("total", 1)
		resp.HasValue("page", 1)
		resp.HasValue("pageSize", entity.DefaultPageSize)
	})
}

func (suite *HandlersTestSuite) TestCreateLink() {
	const path = "/url/store"

	suite.Run("empty request body", func() {
		resp := suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", emptyRequestBodyResponse.Message)
	})

	suite.Run("invalid request body", func() {
		resp := suite.e.POST(path).
			WithJSON("invalid body").
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", invalidRequestBodyResponse.Message)
	})

	suite.Run("invalid url", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "docs", "url": "invalid url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.ContainsKey("message")
		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "url").
			ContainsKey("message")
	})

	suite.Run("invalid name", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "my docs!", "url": "https://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "name").
			HasValue("message", messageForTag(linkNameTag))
	})

	suite.Run("reserved name", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "metrics", "url": "https://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "name")
	})

	suite.Run("name too long", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": strings.Repeat("a", 51), "url": "https://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "name")
	})

	suite.Run("missing fields", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("error").Array().Length().IsEqual(2)
	})

	suite.Run("name exists", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "docs", "https://example.com").
			Once().
			Return(nil, fmt.Errorf("wrapped: %w", entity.ErrLinkNameExists))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "docs", "url": "https://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", linkNameExistsResponse.Message)
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "docs", "https://example.com").
			Once().
			Return(nil, errors.New("connection reset by peer"))

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "docs", "url": "https://example.com"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("CreateLink", mock.Anything, "docs", "https://example.com").
			Once().
			Return(testLink(), nil)

		resp := suite.e.POST(path).
			WithJSON(map[string]string{"name": "docs", "url": "https://example.com"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("message", "url created successfully")
		data := resp.Value("data").Object()
		data.HasValue("id", testLinkID.String())
		data.HasValue("name", "docs")
		data.HasValue("url", "https://example.com")
		data.HasValue("count_access", 0)
		data.ContainsKey("created_at")
	})
}

func (suite *HandlersTestSuite) TestUpdateLink() {
	const path = "/url/update/%s"

	body := map[string]string{"name": "docs", "url": "https://new-example.com"}

	suite.Run("empty request body", func() {
		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", emptyRequestBodyResponse.Message)
	})

	suite.Run("validation error", func() {
		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			WithJSON(map[string]string{"name": "docs", "url": "ftp://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.Value("error").Array().Value(0).Object().
			HasValue("field", "url")
	})

	suite.Run("malformed id", func() {
		resp := suite.e.PUT(fmt.Sprintf(path, "abc123")).
			WithJSON(body).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("link not found", func() {
		suite.linkUseCaseMock.
			On("UpdateLink", mock.Anything, testLinkID, "docs", "https://new-example.com").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			WithJSON(body).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("name exists", func() {
		suite.linkUseCaseMock.
			On("UpdateLink", mock.Anything, testLinkID, "docs", "https://new-example.com").
			Once().
			Return(nil, entity.ErrLinkNameExists)

		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			WithJSON(body).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("message", linkNameExistsResponse.Message)
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("UpdateLink", mock.Anything, testLinkID, "docs", "https://new-example.com").
			Once().
			Return(nil, errors.New("unknown error"))

		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			WithJSON(body).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success", func() {
		link := testLink()
		link.URL = "https://new-example.com"
		link.AccessCount = 7

		suite.linkUseCaseMock.
			On("UpdateLink", mock.Anything, testLinkID, "docs", "https://new-example.com").
			Once().
			Return(link, nil)

		resp := suite.e.PUT(fmt.Sprintf(path, testLinkID)).
			WithJSON(body).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("message", "url updated successfully")
		resp.Value("data").Object().
			HasValue("url", "https://new-example.com").
			HasValue("count_access", 7)
	})
}

func (suite *HandlersTestSuite) TestDeleteLink() {
	const path = "/url/delete/%s"

	suite.Run("malformed id", func() {
		resp := suite.e.DELETE(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("link not found", func() {
		suite.linkUseCaseMock.
			On("DeleteLink", mock.Anything, testLinkID).
			Once().
			Return(entity.ErrLinkNotFound)

		resp := suite.e.DELETE(fmt.Sprintf(path, testLinkID)).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("DeleteLink", mock.Anything, testLinkID).
			Once().
			Return(errors.New("unknown error"))

		suite.e.DELETE(fmt.Sprintf(path, testLinkID)).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success", func() {
		suite.linkUseCaseMock.
			On("DeleteLink", mock.Anything, testLinkID).
			Once().
			Return(nil)

		suite.e.DELETE(fmt.Sprintf(path, testLinkID)).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("message", "url deleted successfully")
	})
}

func (suite *HandlersTestSuite) TestResolveLink() {
	const path = "/%s"

	suite.Run("invalid name", func() {
		resp := suite.e.GET(fmt.Sprintf(path, "not.a.name")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("link not found", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", linkNotFoundResponse.Message)
	})

	suite.Run("server error", func() {
		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return(nil, errors.New("unknown error"))

		suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("message", serverErrorResponse.Message)
	})

	suite.Run("success", func() {
		link := testLink()
		link.Name = "abc123"
		link.AccessCount = 3

		suite.linkUseCaseMock.
			On("ResolveLink", mock.Anything, "abc123").
			Once().
			Return(link, nil)

		resp := suite.e.GET(fmt.Sprintf(path, "abc123")).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("url", "https://example.com")
		resp.HasValue("count_access", 3)
		resp.NotContainsKey("id")
	})
}

func (suite *HandlersTestSuite) TestExportLinks() {
	const path = "/url/export"

	suite.Run("export error", func() {
		suite.linkExporterMock.
			On("Export", mock.Anything, "docs").
			Once().
			Return("", errors.New("s3: access denied"))

		resp := suite.e.POST(path).
			WithQuery("searchQuery", "docs").
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object()

		resp.HasValue("status", "error")
		resp.HasValue("message", exportFailedResponse.Message)
	})

	suite.Run("success", func() {
		const url = "https://cdn.example.com/downloads/2024-10-16T08:30:15.123Z.csv"

		suite.linkExporterMock.
			On("Export", mock.Anything, "").
			Once().
			Return(url, nil)

		resp := suite.e.POST(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.HasValue("message", "url exported successfully")
		resp.HasValue("url", url)
	})
}

func (suite *HandlersTestSuite) TestRouteNamedLinks() {
	for _, name := range []string{"docs", "swagger"} {
		suite.Run(name+" creates and resolves", func() {
			link := testLink()
			link.Name = name
			link.AccessCount = 1

			suite.linkUseCaseMock.
				On("CreateLink", mock.Anything, name, "https://example.com").
				Once().
				Return(link, nil)
			suite.linkUseCaseMock.
				On("ResolveLink", mock.Anything, name).
				Once().
				Return(link, nil)

			suite.e.POST("/url/store").
				WithJSON(map[string]string{"name": name, "url": "https://example.com"}).
				Expect().
				Status(http.StatusOK).
				JSON().Object().
				Value("data").Object().
				HasValue("name", name)

			suite.e.GET("/"+name).
				Expect().
				Status(http.StatusOK).
				JSON().Object().
				HasValue("url", "https://example.com").
				HasValue("count_access", 1)
		})
	}

	suite.Run("metrics is not a link", func() {
		suite.e.POST("/url/store").
			WithJSON(map[string]string{"name": "metrics", "url": "https://example.com"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			Value("error").Array().Value(0).Object().
			HasValue("field", "name")

		suite.e.GET("/metrics").
			Expect().
			Status(http.StatusOK).
			Body().Contains("go_goroutines")
	})
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
