// @title Foodgram API
// @version 1.0
// @description 菜谱分享服务：菜谱、标签、食材、收藏、购物车与订阅
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

func main() {
	Execute()
}
