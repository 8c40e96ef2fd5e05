package dto

// AccessDecision 访问判定结果
type AccessDecision struct {
	UserID     string `json:"user_id"`
	Endpoint   string `json:"endpoint"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	UsageCount int64  `json:"usage_count"`
	Quota      int64  `json:"quota"`
	Remaining  int64  `json:"remaining"`
}
