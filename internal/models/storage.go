package models

// StorageUsage is the quota accounting summary for the current user.
// The readable fields are preformatted by the server.
type StorageUsage struct {
	UsedBytes      int64  `json:"usedBytes"`
	TotalBytes     int64  `json:"totalBytes"`
	UsedGB         string `json:"usedGB"`
	TotalGB        int    `json:"totalGB"`
	PercentageUsed int    `json:"percentageUsed"`
	ReadableUsed   string `json:"readableUsed"`
	ReadableTotal  string `json:"readableTotal"`
}
