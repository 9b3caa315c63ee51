// Package authz 提供纯函数式的权限判定
//
// 设计说明：
// 1. 判定函数无I/O、无隐藏状态，输入只有操作者ID与资源归属关系
// 2. 返回Decision而非直接返回error，由调用方决定映射为哪个业务错误
// 3. 订单是双方资源（买家+卖家），图书和用户资料是单所有者资源
package authz

// Decision 权限判定结果
type Decision struct {
	Allowed bool   // 是否允许
	Reason  string // 拒绝原因（Allowed为true时为空）
}

// Allow 允许
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny 拒绝并给出原因
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// OwnerOnly 单所有者资源的判定：只有资源所有者本人可以操作
// 适用：修改/下架图书、修改用户资料
func OwnerOnly(actorID, ownerID uint) Decision {
	if actorID == ownerID {
		return Allow()
	}
	return Deny("无权限访问")
}

// AnyParty 多方资源的判定：操作者属于给定的参与方之一即可
// 适用：订单的读取与状态流转（买家或卖家）
// 注意：这里只判定"是否是参与方"，具体某一方能触发哪种流转由状态机规则约束
func AnyParty(actorID uint, partyIDs ...uint) Decision {
	for _, id := range partyIDs {
		if actorID == id {
			return Allow()
		}
	}
	return Deny("无权限访问")
}
