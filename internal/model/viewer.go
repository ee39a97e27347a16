package model

// Viewer 读请求所代表的身份；零值为匿名
type Viewer struct {
	UserID int64
}

// Anonymous 未认证访客
var Anonymous = Viewer{}

// ViewerOf 已认证用户
func ViewerOf(userID int64) Viewer { return Viewer{UserID: userID} }

func (v Viewer) IsAnonymous() bool { return v.UserID <= 0 }
