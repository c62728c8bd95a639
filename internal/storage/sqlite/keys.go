package sqlite

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/cryptox"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/repositories/metadata"
)

const (
	keySalt     = "kdf_salt"
	keyVerifier = "key_verifier"
)

// unlock derives the field key from passphrase. On first use it creates and
// stores a salt and a verifier; later it checks the verifier.
func unlock(ctx context.Context, db *sql.DB, passphrase string) (*cryptox.Sealer, error) {
	var key []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := metadata.NewSQLiteRepository(tx)

		salt, err := md.Get(ctx, keySalt)
		if err != nil {
			return err
		}
		verifier, err := md.Get(ctx, keyVerifier)
		if err != nil {
			return err
		}

		if salt == nil || verifier == nil {
			salt = cryptox.NewSalt()
			key = cryptox.DeriveMasterKey([]byte(passphrase), salt)
			if err := md.Set(ctx, keySalt, salt); err != nil {
				return err
			}
			return md.Set(ctx, keyVerifier, cryptox.MakeVerifier(key))
		}

		key = cryptox.DeriveMasterKey([]byte(passphrase), salt)
		return cryptox.CheckVerifier(key, verifier)
	})
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	return cryptox.NewSealer(key)
}
