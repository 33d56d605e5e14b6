package filestore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
)

// clientConfig is the on-disk shape of the client id file.
type clientConfig struct {
	ClientID domain.ID `json:"clientId"`
}

// ClientIDFile stores the installation's client id as {"clientId": n}.
type ClientIDFile struct {
	path string
	log  zerolog.Logger
}

func NewClientIDFile(path string, log zerolog.Logger) *ClientIDFile {
	return &ClientIDFile{path: path, log: log}
}

// Load returns ok=false when the file is missing, blank or holds no id.
func (f *ClientIDFile) Load(ctx context.Context) (domain.ID, bool, error) {
	var cfg clientConfig
	var found bool
	err := withLock(ctx, f.path, false, func() error {
		var err error
		found, err = readJSON(f.path, &cfg)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	if !found || cfg.ClientID == 0 {
		return 0, false, nil
	}
	return cfg.ClientID, true, nil
}

// SaveIfAbsent writes id unless another writer already stored one, in
// which case the stored id is returned.
func (f *ClientIDFile) SaveIfAbsent(ctx context.Context, id domain.ID) (domain.ID, error) {
	stored := id
	err := withLock(ctx, f.path, true, func() error {
		var cfg clientConfig
		found, err := readJSON(f.path, &cfg)
		if err != nil {
			return err
		}
		if found && cfg.ClientID != 0 {
			stored = cfg.ClientID
			return nil
		}
		return writeJSON(f.path, clientConfig{ClientID: id})
	})
	if err != nil {
		return 0, err
	}
	if stored != id {
		f.log.Warn().Stringer("kept", stored).Stringer("discarded", id).Msg("client id already stored by another writer")
	} else {
		f.log.Info().Str("path", f.path).Stringer("client_id", id).Msg("client id saved")
	}
	return stored, nil
}
