package mocks

import (
	"github.com/stretchr/testify/mock"

	"microblog/internal/interfaces"
)

// MockDatabaseManager is a testify mock for the DatabaseMgr interface.
type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
