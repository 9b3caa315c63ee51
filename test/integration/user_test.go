package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
// 覆盖:注册、登录、登出、个人信息

// TestUserRegister 测试用户注册
func TestUserRegister(t *testing.T) {
	RequireServer(t)

	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("register")
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nombre":   "注册测试用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", req, "")

		assert.Equal(t, 0, resp.Code, "注册应该成功: %s", resp.Message)

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
		assert.Equal(t, "注册测试用户", data.Name)
	})

	t.Run("重复邮箱注册失败", func(t *testing.T) {
		email := GenerateTestEmail("dup")
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nombre":   "用户A",
		}

		first := PostJSON(t, BaseURL+"/users/register", req, "")
		require.Equal(t, 0, first.Code, "首次注册应该成功")

		second := PostJSON(t, BaseURL+"/users/register", req, "")
		assert.NotEqual(t, 0, second.Code, "重复邮箱应该失败")
	})

	t.Run("弱密码注册失败", func(t *testing.T) {
		req := map[string]string{
			"email":    GenerateTestEmail("weak"),
			"password": "12345678", // 纯数字
			"nombre":   "弱密码用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", req, "")
		assert.NotEqual(t, 0, resp.Code, "弱密码应该被拒绝")
	})

	t.Run("邮箱格式错误注册失败", func(t *testing.T) {
		req := map[string]string{
			"email":    "not-an-email",
			"password": "Test1234",
			"nombre":   "格式错误用户",
		}

		resp := PostJSON(t, BaseURL+"/users/register", req, "")
		assert.NotEqual(t, 0, resp.Code, "非法邮箱应该被拒绝")
	})
}

// TestUserLogin 测试用户登录
func TestUserLogin(t *testing.T) {
	RequireServer(t)

	email := GenerateTestEmail("login")
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nombre":   "登录测试用户",
	}
	resp := PostJSON(t, BaseURL+"/users/register", registerReq, "")
	require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

	t.Run("正常登录", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    email,
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
		assert.Equal(t, 0, resp.Code, "登录应该成功: %s", resp.Message)

		var data LoginData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.NotEmpty(t, data.AccessToken)
		assert.NotEmpty(t, data.RefreshToken)
	})

	t.Run("密码错误登录失败", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    email,
			"password": "Wrong1234",
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
		assert.NotEqual(t, 0, resp.Code, "密码错误应该失败")
	})

	t.Run("用户不存在登录失败", func(t *testing.T) {
		loginReq := map[string]string{
			"email":    "nobody_" + email,
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL+"/users/login", loginReq, "")
		assert.NotEqual(t, 0, resp.Code, "不存在的用户应该失败")
	})
}

// TestUserProfile 测试个人信息
func TestUserProfile(t *testing.T) {
	RequireServer(t)

	userID, token := RegisterTestUser(t, "profile_user")

	t.Run("登录后可查看个人信息", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/profile", token)
		assert.Equal(t, 0, resp.Code, "查询个人信息应该成功: %s", resp.Message)

		var data struct {
			ID       uint   `json:"id"`
			Name     string `json:"nombre"`
			OrderIDs []uint `json:"ordenes"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.Equal(t, userID, data.ID)
		assert.Equal(t, "profile_user", data.Name)
		assert.NotNil(t, data.OrderIDs, "订单列表应该是空数组而不是null")
	})

	t.Run("未登录不能查看个人信息", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/users/profile", "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})
}

// TestUserLogout 测试登出后Token失效
func TestUserLogout(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "logout_user")

	logoutResp := PostJSON(t, BaseURL+"/users/logout", nil, token)
	require.Equal(t, 0, logoutResp.Code, "登出应该成功: %s", logoutResp.Message)

	// 登出后的Token进入黑名单，再次访问受保护接口应该失败
	resp := GetJSON(t, BaseURL+"/users/profile", token)
	assert.NotEqual(t, 0, resp.Code, "登出后的Token应该失效")
}
