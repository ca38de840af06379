package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockMailManager is a testify mock for the MailMgr interface.
type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendVerificationMail(email, username, firstName, lastName, verificationURL string) error {
	args := m.Called(email, username, firstName, lastName, verificationURL)
	return args.Error(0)
}
