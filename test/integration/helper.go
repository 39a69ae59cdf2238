package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 测试对着运行中的服务发HTTP请求,通过LIBRARY_API_URL指定地址
// (未设置时跳过,避免在没有环境的机器上误报失败)

const (
	// DefaultBaseURL 本地默认地址
	DefaultBaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL 返回被测服务地址,未配置环境时跳过测试
func BaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("LIBRARY_API_URL")
	if url == "" {
		t.Skip("未设置LIBRARY_API_URL,跳过集成测试")
	}
	return url
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CategoryData 分类响应数据
type CategoryData struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	Level       int    `json:"level"`
	FullPath    string `json:"full_path"`
	BookCount   int64  `json:"book_count"`
	HasChildren bool   `json:"has_children"`
}

// BookData 图书响应数据
type BookData struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Status          string `json:"status"`
	Categories      []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

// DoJSON 发送请求并解析统一响应
func DoJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
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

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return DoJSON(t, http.MethodPost, url, data)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string) *Response {
	return DoJSON(t, http.MethodGet, url, nil)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string, data interface{}) *Response {
	return DoJSON(t, http.MethodPut, url, data)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, url string) *Response {
	return DoJSON(t, http.MethodDelete, url, nil)
}

// GenerateTestISBN 生成唯一的测试ISBN
// ISBN-13格式:978 + 10位数字,取时间戳后10位保证唯一
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// GenerateTestName 生成唯一的测试名称
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// CreateTestCategory 创建测试分类并返回数据
func CreateTestCategory(t *testing.T, baseURL, name string, parentID *uint) CategoryData {
	t.Helper()

	req := map[string]interface{}{
		"name":        name,
		"description": "集成测试分类",
	}
	if parentID != nil {
		req["parent_id"] = *parentID
	}

	resp := PostJSON(t, baseURL+"/categories", req)
	require.Equal(t, 0, resp.Code, "创建分类失败: %s", resp.Message)

	var data CategoryData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析分类响应失败")
	return data
}

// CreateTestBook 创建测试图书并返回数据
func CreateTestBook(t *testing.T, baseURL, title string, totalCopies int, categoryIDs []uint) BookData {
	t.Helper()

	req := map[string]interface{}{
		"isbn":         GenerateTestISBN(),
		"title":        title,
		"author":       "测试作者",
		"publisher":    "测试出版社",
		"total_copies": totalCopies,
	}
	if len(categoryIDs) > 0 {
		req["category_ids"] = categoryIDs
	}

	resp := PostJSON(t, baseURL+"/books", req)
	require.Equal(t, 0, resp.Code, "创建图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	return data
}
