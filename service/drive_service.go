package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"meetzzz-customizer/models"
	"meetzzz-customizer/utils"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(credentialsPath string) (*DriveService, error) {
	ctx := context.Background()

	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// ListFontFiles lists all font files in a Google Drive folder
func (ds *DriveService) ListFontFiles(folderID string) ([]models.FontFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	var fonts []models.FontFile
	for _, file := range allFiles {
		// Drive reports fonts under several mime types, so the extension decides
		if _, err := utils.ParseFontFileName(file.Name); err != nil {
			log.Printf("⏭️  Skipping %s: %v", file.Name, err)
			continue
		}

		fonts = append(fonts, models.FontFile{
			DriveFileID: file.Id,
			FileName:    file.Name,
			MimeType:    strings.ToLower(file.MimeType),
		})
	}

	log.Printf("✓ Found %d font files in Drive folder %s", len(fonts), folderID)
	return fonts, nil
}

// DownloadFile downloads the raw bytes of a Drive file
func (ds *DriveService) DownloadFile(fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}

	return data, nil
}
