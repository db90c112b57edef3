package models

import (
	"time"

	"github.com/exposure-hq/briefdesk/internal/crypto"
	"gorm.io/gorm"
)

var encryptor *crypto.FieldEncryptor

// InitEncryption initializes the field encryptor for the models package.
// Must be called before any database operations involving Profile.
func InitEncryption(encryptionKey string) error {
	var err error
	encryptor, err = crypto.NewFieldEncryptor(encryptionKey)
	return err
}

// Profile holds a creator's payout details. The row is owned by the identity
// it represents: the primary key is the identity provider's user id and the
// record is upserted on first save. BSB and account number are stored
// encrypted at rest.
type Profile struct {
	ID            string `gorm:"primaryKey"`
	Email         string `gorm:"uniqueIndex;not null"`
	BankName      string
	AccountName   string
	BSB           string `gorm:"column:bsb;type:text"`
	AccountNumber string `gorm:"type:text"`
	PaypalEmail   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BeforeSave encrypts bank identifiers before they reach the database.
// Always encrypts non-empty values (GCM produces different output each time
// due to random nonce).
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if encryptor == nil {
		// Allow operations without encryption (e.g., for testing or if encryption not initialized)
		return nil
	}

	if p.BSB != "" {
		encrypted, err := encryptor.Encrypt(p.BSB)
		if err != nil {
			return err
		}
		p.BSB = encrypted
	}

	if p.AccountNumber != "" {
		encrypted, err := encryptor.Encrypt(p.AccountNumber)
		if err != nil {
			return err
		}
		p.AccountNumber = encrypted
	}

	return nil
}

// AfterFind decrypts bank identifiers after loading from the database.
func (p *Profile) AfterFind(tx *gorm.DB) error {
	if encryptor == nil {
		return nil
	}

	if p.BSB != "" {
		decrypted, err := encryptor.Decrypt(p.BSB)
		if err != nil {
			return err
		}
		p.BSB = decrypted
	}

	if p.AccountNumber != "" {
		decrypted, err := encryptor.Decrypt(p.AccountNumber)
		if err != nil {
			return err
		}
		p.AccountNumber = decrypted
	}

	return nil
}
