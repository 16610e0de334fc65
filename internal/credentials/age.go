package credentials

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

const (
	ageIdentityParseTemplateConstant = "unable to parse age identity %s: %w"
	ageDecryptTemplateConstant       = "unable to decrypt token: %w"
)

func decryptAgeToken(ciphertext []byte, identityLocation string, identityContents []byte) ([]byte, error) {
	identities, parseError := age.ParseIdentities(bytes.NewReader(identityContents))
	if parseError != nil {
		return nil, fmt.Errorf(ageIdentityParseTemplateConstant, identityLocation, parseError)
	}

	var ciphertextReader io.Reader = bytes.NewReader(ciphertext)
	if bytes.HasPrefix(bytes.TrimSpace(ciphertext), []byte(armor.Header)) {
		ciphertextReader = armor.NewReader(bytes.NewReader(bytes.TrimSpace(ciphertext)))
	}

	plaintextReader, decryptError := age.Decrypt(ciphertextReader, identities...)
	if decryptError != nil {
		return nil, fmt.Errorf(ageDecryptTemplateConstant, decryptError)
	}

	plaintext, readError := io.ReadAll(plaintextReader)
	if readError != nil {
		return nil, fmt.Errorf(ageDecryptTemplateConstant, readError)
	}
	return plaintext, nil
}
