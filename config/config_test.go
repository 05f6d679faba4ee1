package config

import (
	"os"
	"testing"
)

func cleanupEnv() {
	for _, key := range []string{
		"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "STORE_BACKEND",
		"FIRESTORE_PROJECT_ID", "MONGODB_URI", "MONGODB_DATABASE",
		"CATALOG_REFRESH_AT", "FALLBACK_PASSCODE", "PRACTICE_NAME",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("STORE_BACKEND", "memory")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("Expected memory backend, got %s", cfg.StoreBackend)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("Expected default memory backend, got %s", cfg.StoreBackend)
	}
	if cfg.FallbackPasscode != "1234" {
		t.Errorf("Expected default fallback passcode, got %s", cfg.FallbackPasscode)
	}
	if cfg.PracticeName == "" || cfg.PractitionerName == "" {
		t.Error("Expected letterhead defaults to be set")
	}
	if cfg.CatalogRefreshAt != "06:00;18:00" {
		t.Errorf("Expected default refresh times, got %s", cfg.CatalogRefreshAt)
	}
}

func TestInvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port string
	}{
		{"non-numeric", "abc"},
		{"too small", "0"},
		{"too large", "70000"},
		{"privileged", "80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanupEnv()
			_ = os.Setenv("PORT", tt.port)
			defer cleanupEnv()

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for port %q", tt.port)
			}
		})
	}
}

func TestInvalidEnv(t *testing.T) {
	cleanupEnv()
	_ = os.Setenv("ENV", "production-ish")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid ENV")
	}
}

func TestStoreBackendValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "firestore without project",
			env:     map[string]string{"STORE_BACKEND": "firestore"},
			wantErr: true,
		},
		{
			name: "firestore with project",
			env: map[string]string{
				"STORE_BACKEND":        "firestore",
				"FIRESTORE_PROJECT_ID": "clinic-test",
			},
			wantErr: false,
		},
		{
			name:    "mongo with defaults",
			env:     map[string]string{"STORE_BACKEND": "mongo"},
			wantErr: false,
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"STORE_BACKEND": "couch"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanupEnv()
			for k, v := range tt.env {
				_ = os.Setenv(k, v)
			}
			defer cleanupEnv()

			_, err := Load()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestRefreshTimesValidation(t *testing.T) {
	tests := []struct {
		name    string
		times   string
		wantErr bool
	}{
		{"single time", "06:00", false},
		{"two times", "06:00;18:00", false},
		{"bad hour", "25:00", true},
		{"bad minute", "06:75", true},
		{"missing minute", "06", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanupEnv()
			_ = os.Setenv("CATALOG_REFRESH_AT", tt.times)
			defer cleanupEnv()

			_, err := Load()
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q", tt.times)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %q, got %v", tt.times, err)
			}
		})
	}
}
