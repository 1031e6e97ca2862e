package service

import "meetzzz-customizer/models"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListFontFiles(folderID string) ([]models.FontFile, error)
	DownloadFile(fileID string) ([]byte, error)
}
