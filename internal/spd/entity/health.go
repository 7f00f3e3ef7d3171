package entity

// HealthResponse 守护进程健康状态
type HealthResponse struct {
	Status string `json:"status"`
	Pools  int    `json:"pools"`
}
