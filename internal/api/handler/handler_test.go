package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"enrollment-api/config"
	"enrollment-api/internal/dto"
	"enrollment-api/internal/model"
	"enrollment-api/internal/repository/repotest"
	"enrollment-api/internal/service"
	"enrollment-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginURL     string
	loginURLErr  error
	session      *dto.SessionResponse
	completeErr  error
	loggedOut    string
	logoutErr    error
	authUser     *dto.CurrentUser
	authErr      error
	receivedCode string
}

func (m *mockAuthService) LoginURL(state string) (string, error) {
	return m.loginURL + "?state=" + state, m.loginURLErr
}
func (m *mockAuthService) CompleteLogin(_ context.Context, code string) (*dto.SessionResponse, error) {
	m.receivedCode = code
	return m.session, m.completeErr
}
func (m *mockAuthService) Authenticate(_ context.Context, _ string) (*dto.CurrentUser, error) {
	return m.authUser, m.authErr
}
func (m *mockAuthService) Logout(_ context.Context, token string) error {
	m.loggedOut = token
	return m.logoutErr
}

// ── Mock Pinger ──

type mockPinger struct{ err error }

func (m mockPinger) Ping(_ context.Context) error { return m.err }

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func janeDoe() map[string]interface{} {
	return map[string]interface{}{
		"firstName":   "Jane",
		"lastName":    "Doe",
		"email":       "jane@doe.com",
		"birthday":    "2000-05-15",
		"gender":      "Female",
		"address":     "123 St",
		"phoneNumber": "6471234567",
	}
}

// newStudentEngine 不含会话门禁的学生资源路由，门禁由 router 测试覆盖
func newStudentEngine() (*gin.Engine, *repotest.Collection[model.Student]) {
	coll := repotest.New[model.Student](model.StudentCollection)
	svc := service.NewResourceService[model.Student](service.StudentResource, coll, zap.NewNop())
	h := NewResourceHandler(svc, zap.NewNop())

	r := gin.New()
	r.GET("/students", h.List)
	r.GET("/students/:id", h.Get)
	r.POST("/students", h.Bind, h.Create)
	r.PUT("/students/:id", h.Bind, h.Update)
	r.DELETE("/students/:id", h.Delete)
	return r, coll
}

func do(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func createdID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data dto.IDResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析创建响应失败: %v", err)
	}
	return resp.Data.ID
}

// ═══════════════════════════════════════════════════════════
// ResourceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestResourceHandler_CreateThenGet(t *testing.T) {
	r, _ := newStudentEngine()

	w := do(r, "POST", "/students", jsonBody(janeDoe()))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	id := createdID(t, w)

	w = do(r, "GET", "/students/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data["_id"] != id {
		t.Errorf("_id 不一致: want %s, got %v", id, resp.Data["_id"])
	}
	for k, v := range janeDoe() {
		if resp.Data[k] != v {
			t.Errorf("字段 %s 不一致: want %v, got %v", k, v, resp.Data[k])
		}
	}
}

func TestResourceHandler_Create_Duplicate(t *testing.T) {
	r, coll := newStudentEngine()

	if w := do(r, "POST", "/students", jsonBody(janeDoe())); w.Code != http.StatusCreated {
		t.Fatalf("首次创建 expected 201, got %d", w.Code)
	}

	w := do(r, "POST", "/students", jsonBody(janeDoe()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Message != "Student already exists" || resp.Code != 20003 {
		t.Errorf("响应不符: %+v", resp)
	}
	if coll.Len() != 1 {
		t.Errorf("记录数应为 1, got %d", coll.Len())
	}
}

func TestResourceHandler_Create_ValidationFailed(t *testing.T) {
	r, coll := newStudentEngine()

	body := janeDoe()
	delete(body, "lastName")
	body["email"] = "not-an-email"

	w := do(r, "POST", "/students", jsonBody(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
	fields, _ := resp.Fields.([]interface{})
	if len(fields) != 2 {
		t.Errorf("应返回 2 个失败字段, got %v", resp.Fields)
	}
	if coll.Len() != 0 {
		t.Error("校验失败不应写入")
	}
}

func TestResourceHandler_Create_MalformedJSON(t *testing.T) {
	r, _ := newStudentEngine()

	w := do(r, "POST", "/students", strings.NewReader(`{"firstName": `))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestResourceHandler_Create_BodyTooLarge(t *testing.T) {
	coll := repotest.New[model.Student](model.StudentCollection)
	svc := service.NewResourceService[model.Student](service.StudentResource, coll, zap.NewNop())
	h := NewResourceHandler(svc, zap.NewNop())

	r := gin.New()
	r.POST("/students", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		c.Next()
	}, h.Bind, h.Create)

	w := do(r, "POST", "/students", jsonBody(janeDoe()))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestResourceHandler_Get_InvalidID(t *testing.T) {
	r, _ := newStudentEngine()

	w := do(r, "GET", "/students/not-a-valid-id", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20001 {
		t.Errorf("expected code 20001, got %d", resp.Code)
	}
}

func TestResourceHandler_Get_NotFound(t *testing.T) {
	r, _ := newStudentEngine()

	w := do(r, "GET", "/students/"+primitive.NewObjectID().Hex(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != "Student not found" {
		t.Errorf("message 不符: %q", resp.Message)
	}
}

func TestResourceHandler_List_Empty(t *testing.T) {
	r, _ := newStudentEngine()

	w := do(r, "GET", "/students", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("空列表应渲染为 []: %s", w.Body.String())
	}
}

func TestResourceHandler_Update(t *testing.T) {
	r, _ := newStudentEngine()

	id := createdID(t, do(r, "POST", "/students", jsonBody(janeDoe())))

	body := janeDoe()
	body["address"] = "456 Ave"
	w := do(r, "PUT", "/students/"+id, jsonBody(body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"address":"456 Ave"`) {
		t.Errorf("应返回更新后的文档: %s", w.Body.String())
	}

	w = do(r, "PUT", "/students/"+primitive.NewObjectID().Hex(), jsonBody(body))
	if w.Code != http.StatusNotFound {
		t.Errorf("更新不存在的记录 expected 404, got %d", w.Code)
	}
}

func TestResourceHandler_Update_InvalidIDBeforeFields(t *testing.T) {
	r, coll := newStudentEngine()

	w := do(r, "PUT", "/students/not-a-valid-id", jsonBody(map[string]interface{}{"firstName": "Jane"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 20001 || resp.Message != "Invalid id" {
		t.Errorf("非法 id 应先于字段校验返回, got %d %q", resp.Code, resp.Message)
	}
	if coll.Len() != 0 {
		t.Error("不应写入任何记录")
	}
}

func TestResourceHandler_Delete_Idempotent(t *testing.T) {
	r, _ := newStudentEngine()

	id := createdID(t, do(r, "POST", "/students", jsonBody(janeDoe())))

	for i := 0; i < 2; i++ {
		if w := do(r, "DELETE", "/students/"+id, nil); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次删除 expected 200, got %d", i+1, w.Code)
		}
	}
	if w := do(r, "GET", "/students/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("删除后读取 expected 404, got %d", w.Code)
	}
}

func TestResourceHandler_StoreFailure(t *testing.T) {
	r, coll := newStudentEngine()
	coll.Err = errors.New("connection reset")

	w := do(r, "GET", "/students", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Message != "Error occurred" || resp.Error == "" {
		t.Errorf("500 响应应带 message 与 error: %+v", resp)
	}
}

func TestResourceHandler_PayloadNotBound(t *testing.T) {
	coll := repotest.New[model.Student](model.StudentCollection)
	svc := service.NewResourceService[model.Student](service.StudentResource, coll, zap.NewNop())
	h := NewResourceHandler(svc, zap.NewNop())

	r := gin.New()
	r.POST("/students", h.Create)

	if w := do(r, "POST", "/students", jsonBody(janeDoe())); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func newAuthHandler(m *mockAuthService) *AuthHandler {
	return NewAuthHandler(m, &config.AuthConfig{Cookie: config.CookieConfig{SameSite: "Lax"}})
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Home(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/anon", h.Home)
	r.GET("/user", func(c *gin.Context) {
		c.Set(ctxCurrentUser, &dto.CurrentUser{ID: "1", Login: "octocat"})
		h.Home(c)
	})

	if w := do(r, "GET", "/anon", nil); w.Body.String() != "Logged Out" {
		t.Errorf("匿名应返回 Logged Out, got %q", w.Body.String())
	}
	if w := do(r, "GET", "/user", nil); w.Body.String() != "Logged in as octocat" {
		t.Errorf("登录后应返回用户名, got %q", w.Body.String())
	}
}

func TestAuthHandler_Login_Redirect(t *testing.T) {
	h := newAuthHandler(&mockAuthService{loginURL: "https://github.test/authorize"})

	r := gin.New()
	r.GET("/login", h.Login)
	w := do(r, "GET", "/login", nil)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	state := findCookie(w, stateCookie)
	if state == nil || state.Value == "" || !state.HttpOnly {
		t.Fatalf("应设置 HttpOnly 的 state Cookie: %+v", state)
	}
	if loc := w.Header().Get("Location"); loc != "https://github.test/authorize?state="+state.Value {
		t.Errorf("跳转地址不符: %s", loc)
	}
}

func TestAuthHandler_Login_Disabled(t *testing.T) {
	h := newAuthHandler(&mockAuthService{loginURLErr: service.ErrOAuthDisabled})

	r := gin.New()
	r.GET("/login", h.Login)

	if w := do(r, "GET", "/login", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestAuthHandler_Callback_Success(t *testing.T) {
	m := &mockAuthService{session: &dto.SessionResponse{
		Token:     "signed-token",
		ExpiresIn: 3600,
		User:      dto.CurrentUser{ID: "42", Login: "octocat"},
	}}
	h := newAuthHandler(m)

	r := gin.New()
	r.GET("/github/callback", h.Callback)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/github/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("expected 302 to /, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if m.receivedCode != "abc" {
		t.Errorf("授权码未透传: %q", m.receivedCode)
	}
	sess := findCookie(w, SessionCookie)
	if sess == nil || sess.Value != "signed-token" || !sess.HttpOnly || sess.MaxAge != 3600 {
		t.Errorf("会话 Cookie 不符: %+v", sess)
	}
}

func TestParseSameSite(t *testing.T) {
	tests := []struct {
		in   string
		want http.SameSite
	}{
		{"Lax", http.SameSiteLaxMode},
		{"Strict", http.SameSiteStrictMode},
		{"None", http.SameSiteNoneMode},
		{"strict", http.SameSiteStrictMode},
		{" NONE ", http.SameSiteNoneMode},
		{"", http.SameSiteLaxMode},
	}

	for _, tt := range tests {
		if got := parseSameSite(tt.in); got != tt.want {
			t.Errorf("parseSameSite(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAuthHandler_SessionCookieSameSite(t *testing.T) {
	m := &mockAuthService{session: &dto.SessionResponse{Token: "signed-token", ExpiresIn: 3600}}
	h := NewAuthHandler(m, &config.AuthConfig{Cookie: config.CookieConfig{SameSite: "None", Secure: true}})

	r := gin.New()
	r.GET("/github/callback", h.Callback)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/github/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	r.ServeHTTP(w, req)

	sess := findCookie(w, SessionCookie)
	if sess == nil || sess.SameSite != http.SameSiteNoneMode || !sess.Secure {
		t.Errorf("跨站会话 Cookie 应为 SameSite=None 且 Secure, got %+v", sess)
	}
}

func TestAuthHandler_Callback_StateMismatch(t *testing.T) {
	m := &mockAuthService{}
	h := newAuthHandler(m)

	r := gin.New()
	r.GET("/github/callback", h.Callback)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/github/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if m.receivedCode != "" {
		t.Error("state 不匹配时不应交换授权码")
	}
}

func TestAuthHandler_Callback_ExchangeFailed(t *testing.T) {
	h := newAuthHandler(&mockAuthService{completeErr: service.ErrOAuthExchange})

	r := gin.New()
	r.GET("/github/callback", h.Callback)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/github/callback?code=bad&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	m := &mockAuthService{}
	h := newAuthHandler(m)

	r := gin.New()
	r.GET("/logout", func(c *gin.Context) {
		c.Set(ctxSessionToken, "signed-token")
		h.Logout(c)
	})
	w := do(r, "GET", "/logout", nil)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if m.loggedOut != "signed-token" {
		t.Errorf("应注销当前会话, got %q", m.loggedOut)
	}
	// 验证 Cookie 被清除（max-age < 0）
	if c := findCookie(w, SessionCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("expected session cookie to be cleared: %+v", c)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/me", h.Me)
	r.GET("/me-auth", func(c *gin.Context) {
		c.Set(ctxCurrentUser, &dto.CurrentUser{ID: "42", Login: "octocat"})
		h.Me(c)
	})

	if w := do(r, "GET", "/me", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("匿名 expected 401, got %d", w.Code)
	}
	w := do(r, "GET", "/me-auth", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"login":"octocat"`) {
		t.Errorf("expected 200 with login, got %d %s", w.Code, w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// SystemHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name string
		deps map[string]Pinger
		code int
	}{
		{"全部正常", map[string]Pinger{"mongo": mockPinger{}}, http.StatusOK},
		{"依赖故障", map[string]Pinger{"mongo": mockPinger{}, "redis": mockPinger{err: errors.New("down")}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(tt.deps)
			r := gin.New()
			r.GET("/health", h.Health)

			if w := do(r, "GET", "/health", nil); w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestSystemHandler_Docs(t *testing.T) {
	h := NewSystemHandler(nil)
	h.SetDoc(dto.APIDoc{
		Title:  "Enrollment API",
		Routes: []dto.RouteDoc{{Method: "GET", Path: "/students"}},
	})

	r := gin.New()
	r.GET("/api-docs", h.Docs)
	w := do(r, "GET", "/api-docs", nil)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"path":"/students"`) {
		t.Errorf("expected route table, got %d %s", w.Code, w.Body.String())
	}
}
