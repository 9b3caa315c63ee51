package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
// 测试依赖本地运行的服务,服务未启动时自动跳过

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// RequireServer 检查本地服务是否可达，不可达则跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", "localhost:8080", time.Second)
	if err != nil {
		t.Skip("本地服务未启动,跳过集成测试")
	}
	conn.Close()
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nombre"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	Publisher string `json:"publisher"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	OwnerID   uint   `json:"owner_id"`
	Status    string `json:"status"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List  []BookData `json:"list"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

// OrderData 订单响应数据
type OrderData struct {
	OrderID         uint   `json:"order_id"`
	OrderNo         string `json:"order_no"`
	BuyerID         uint   `json:"comprador"`
	SellerID        uint   `json:"vendedor"`
	BookIDs         []uint `json:"libros_ids"`
	ShippingAddress string `json:"direccion_envio"`
	Total           int64  `json:"total"`
	TotalFormatted  string `json:"total_formateado"`
	Status          string `json:"estado"`
}

// OrderListData 订单列表响应数据
type OrderListData struct {
	Orders []OrderData `json:"orders"`
	Total  int64       `json:"total"`
}

// DeleteData 删除订单响应数据
type DeleteData struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	Status  string `json:"estado"`
	Message string `json:"mensaje"`
}

// doJSON 发送请求并解析JSON响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodGet, url, nil, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return doJSON(t, http.MethodPut, url, data, token)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return doJSON(t, http.MethodDelete, url, nil, token)
}

// emailSeq 邮箱序号，同一秒内注册多个用户时保证唯一
var emailSeq uint64

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	seq := atomic.AddUint64(&emailSeq, 1)
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().Unix(), seq)
}

// RegisterTestUser 注册测试用户并返回Token
// 封装了注册+登录的完整流程，让测试更关注业务逻辑
func RegisterTestUser(t *testing.T, name string) (userID uint, token string) {
	t.Helper()

	email := GenerateTestEmail(name)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nombre":   name,
	}

	registerResp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	var registerData RegisterData
	err := json.Unmarshal(registerResp.Data, &registerData)
	require.NoError(t, err, "解析注册响应失败")

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err = json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return registerData.ID, loginData.AccessToken
}

// PublishTestBook 上架测试图书并返回图书ID
func PublishTestBook(t *testing.T, token string, title string, price int64) uint {
	t.Helper()

	bookReq := map[string]interface{}{
		"title":     title,
		"author":    "测试作者",
		"genre":     "novela",
		"publisher": "测试出版社",
		"price":     price,
	}

	bookResp := PostJSON(t, BaseURL+"/books", bookReq, token)
	require.Equal(t, 0, bookResp.Code, "图书上架失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// CreateTestOrder 创建测试订单并返回订单数据
func CreateTestOrder(t *testing.T, token string, bookIDs []uint) OrderData {
	t.Helper()

	orderReq := map[string]interface{}{
		"libros_ids":      bookIDs,
		"direccion_envio": "Calle Mayor 1, Madrid",
	}

	resp := PostJSON(t, BaseURL+"/orders", orderReq, token)
	require.Equal(t, 0, resp.Code, "创建订单失败: %s", resp.Message)

	var data OrderData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析订单响应失败")

	return data
}
