package model

import "time"

// ReportRecord is the metadata of an archived PDF report
type ReportRecord struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	FileName         string    `json:"fileName" bson:"fileName"`
	FileID           string    `json:"fileId" bson:"fileId"` // Object store id
	UserName         string    `json:"userName" bson:"userName"`
	Company          string    `json:"company" bson:"company"`
	FollowershipType string    `json:"followershipType" bson:"followershipType"` // Display name of the type
	TypeCode         TypeCode  `json:"typeCode" bson:"typeCode"`
	ScoreA           int       `json:"scoreA" bson:"scoreA"` // Participation
	ScoreB           int       `json:"scoreB" bson:"scoreB"` // Independent thinking
	SizeBytes        int64     `json:"sizeBytes" bson:"sizeBytes"`
	DownloadURL      string    `json:"downloadURL" bson:"-"` // Derived from PUBLIC_URL on read
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// ReportStats summarises archived reports for the admin dashboard
type ReportStats struct {
	Total     int            `json:"total"`
	ByType    map[string]int `json:"byType"`
	ByCompany map[string]int `json:"byCompany"`
}
