// Package ginx 提供 gin handler 的泛型适配器
//
// 业务 handler 只需要关心请求结构体和响应结构体，
// 绑定、校验、错误渲染由适配器统一处理：
//
//	func (p *PoolAPI) CreatePool(ctx *gin.Context, req *entity.CreatePoolRequest) (*entity.CreatePoolResponse, error) {
//	    ...
//	}
//
//	router.POST("/pools/create", ginx.Adapt5(p.CreatePool))
//
// 绑定顺序：JSON Body > URI > Query > Form。
// 请求结构体可以实现 IsValid() error 做额外校验。
// 返回的 error 如果链中包含 *apierror.Error，
// 会按其 HTTPStatus 渲染为统一的错误响应。
package ginx
