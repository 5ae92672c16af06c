package storage

import (
	"os"
	"path/filepath"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string, storage *models.SettingsStorage) error {
	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fileName), 0o700); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	// settings hold the API key, keep them private to the user
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile returns nil storage when the file does not exist yet.
func (f *FileManager) LoadFromFile(fileName string) (*models.SettingsStorage, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var storage models.SettingsStorage
	if err := json.Unmarshal(decompressedData, &storage); err == nil && storage.Values != nil {
		return &storage, nil
	}

	// Unversioned files are a flat key-value object
	f.logger.Warnf(providers.TypeApp, "Unversioned settings file found, try to migrate")
	var values map[string]string
	if err := json.Unmarshal(decompressedData, &values); err != nil {
		f.logger.Warnf(providers.TypeApp, "Settings migration failed")
		return nil, err
	}
	f.logger.Warnf(providers.TypeApp, "Settings migration successful")
	return &models.SettingsStorage{Version: models.SettingsVersion, Values: values}, nil
}
