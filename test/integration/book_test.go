package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 图书模块集成测试
// 覆盖:上架、详情、列表、修改、下架与所有者权限

// TestBookPublish 测试图书上架
func TestBookPublish(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "book_seller")

	t.Run("正常上架", func(t *testing.T) {
		req := map[string]interface{}{
			"title":        "《百年孤独》",
			"author":       "加西亚·马尔克斯",
			"genre":        "novela",
			"publisher":    "南海出版公司",
			"published_at": "1967-05-30",
			"price":        3500,
		}

		resp := PostJSON(t, BaseURL+"/books", req, token)
		assert.Equal(t, 0, resp.Code, "上架应该成功: %s", resp.Message)

		var data BookData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.NotZero(t, data.ID)
		assert.Equal(t, "《百年孤独》", data.Title)
		assert.Equal(t, int64(3500), data.Price)
		assert.Equal(t, "35.00", data.PriceYuan)
		assert.Equal(t, "available", data.Status, "新上架图书应该是available状态")
	})

	t.Run("未登录不能上架", func(t *testing.T) {
		req := map[string]interface{}{
			"title": "《未登录测试》",
			"price": 1000,
		}

		resp := PostJSON(t, BaseURL+"/books", req, "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})

	t.Run("书名为空上架失败", func(t *testing.T) {
		req := map[string]interface{}{
			"title": "",
			"price": 1000,
		}

		resp := PostJSON(t, BaseURL+"/books", req, token)
		assert.NotEqual(t, 0, resp.Code, "空书名应该被拒绝")
	})

	t.Run("负价格上架失败", func(t *testing.T) {
		req := map[string]interface{}{
			"title": "《负价格测试》",
			"price": -100,
		}

		resp := PostJSON(t, BaseURL+"/books", req, token)
		assert.NotEqual(t, 0, resp.Code, "负价格应该被拒绝")
	})
}

// TestBookGet 测试图书详情
func TestBookGet(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestUser(t, "book_getter")
	bookID := PublishTestBook(t, token, "《详情测试图书》", 2000)

	t.Run("查询存在的图书", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		assert.Equal(t, 0, resp.Code, "查询应该成功: %s", resp.Message)

		var data BookData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, bookID, data.ID)
		assert.Equal(t, "《详情测试图书》", data.Title)
	})

	t.Run("查询不存在的图书返回404", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/99999999", "")
		assert.NotEqual(t, 0, resp.Code, "不存在的图书应该失败")
	})
}

// TestBookList 测试图书列表
func TestBookList(t *testing.T) {
	RequireServer(t)

	sellerID, token := RegisterTestUser(t, "book_lister")
	PublishTestBook(t, token, "《列表测试一》", 1000)
	PublishTestBook(t, token, "《列表测试二》", 2000)

	t.Run("按卖家过滤", func(t *testing.T) {
		url := fmt.Sprintf("%s/books?owner_id=%d&page=1&page_size=10", BaseURL, sellerID)
		resp := GetJSON(t, url, "")
		assert.Equal(t, 0, resp.Code, "列表查询应该成功: %s", resp.Message)

		var data BookListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, data.Total, int64(2))
		for _, b := range data.List {
			assert.Equal(t, sellerID, b.OwnerID, "过滤结果应该只包含该卖家的图书")
		}
	})

	t.Run("关键词搜索", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?keyword=列表测试一", "")
		assert.Equal(t, 0, resp.Code)

		var data BookListData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, data.Total, int64(1))
	})
}

// TestBookUpdate 测试图书修改与权限
func TestBookUpdate(t *testing.T) {
	RequireServer(t)

	_, ownerToken := RegisterTestUser(t, "book_owner")
	_, otherToken := RegisterTestUser(t, "book_other")
	bookID := PublishTestBook(t, ownerToken, "《修改前标题》", 1500)

	t.Run("发布者可以修改", func(t *testing.T) {
		req := map[string]interface{}{
			"title": "《修改后标题》",
			"price": 1800,
		}

		resp := PutJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), req, ownerToken)
		assert.Equal(t, 0, resp.Code, "发布者修改应该成功: %s", resp.Message)

		var data BookData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, "《修改后标题》", data.Title)
		assert.Equal(t, int64(1800), data.Price)
	})

	t.Run("非发布者不能修改", func(t *testing.T) {
		req := map[string]interface{}{
			"title": "《越权修改》",
		}

		resp := PutJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), req, otherToken)
		assert.NotEqual(t, 0, resp.Code, "非发布者应该被拒绝")
	})
}

// TestBookDelete 测试图书下架
func TestBookDelete(t *testing.T) {
	RequireServer(t)

	_, ownerToken := RegisterTestUser(t, "delete_owner")
	_, otherToken := RegisterTestUser(t, "delete_other")

	t.Run("非发布者不能下架", func(t *testing.T) {
		bookID := PublishTestBook(t, ownerToken, "《越权下架测试》", 1000)

		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), otherToken)
		assert.NotEqual(t, 0, resp.Code, "非发布者应该被拒绝")
	})

	t.Run("发布者下架后详情不可见", func(t *testing.T) {
		bookID := PublishTestBook(t, ownerToken, "《下架测试图书》", 1000)

		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), ownerToken)
		assert.Equal(t, 0, resp.Code, "发布者下架应该成功: %s", resp.Message)

		getResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		assert.NotEqual(t, 0, getResp.Code, "下架后的图书不应该可见")
	})

	t.Run("已售图书不能下架", func(t *testing.T) {
		bookID := PublishTestBook(t, ownerToken, "《已售下架测试》", 1000)
		CreateTestOrder(t, otherToken, []uint{bookID})

		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), ownerToken)
		assert.NotEqual(t, 0, resp.Code, "已售图书应该不能下架")
	})
}
