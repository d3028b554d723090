package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stefan-ysh/procure_approval_app/internal/core/domain"
	portssvc "github.com/stefan-ysh/procure_approval_app/internal/core/ports/services"
	"github.com/stefan-ysh/procure_approval_app/internal/core/services"
)

type ApproverServiceTestSuite struct {
	suite.Suite
	mockRepo *MockEmployeeRepository
	service  portssvc.ApproverAssignerSvc
	ctx      context.Context
}

func (suite *ApproverServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEmployeeRepository)
	suite.service = services.NewApproverService(suite.mockRepo)
	suite.ctx = context.Background()
}

func candidate(id string, updatedAt time.Time, pending int) domain.ApproverLoad {
	return domain.ApproverLoad{
		Employee: domain.Employee{
			EmployeeID: id,
			Role:       domain.RoleFinanceCompany,
			IsActive:   true,
			AuditFields: domain.AuditFields{
				LastUpdatedAt: updatedAt,
			},
		},
		PendingCount: pending,
	}
}

func (suite *ApproverServiceTestSuite) TestAssignApprover_PicksLeastLoaded() {
	now := time.Now()
	loads := []domain.ApproverLoad{
		candidate("fin-a", now, 3),
		candidate("fin-b", now, 1),
		candidate("fin-c", now, 2),
	}
	suite.mockRepo.On("ListApproverLoads", suite.ctx, domain.RoleFinanceCompany).Return(loads, nil).Once()

	approver, err := suite.service.AssignApprover(suite.ctx, domain.ScopeCompany)

	suite.Require().NoError(err)
	suite.Equal("fin-b", approver.EmployeeID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApproverServiceTestSuite) TestAssignApprover_TieGoesToMostRecentlyUpdated() {
	now := time.Now()
	loads := []domain.ApproverLoad{
		candidate("fin-a", now.Add(-time.Hour), 2),
		candidate("fin-b", now, 2),
	}
	suite.mockRepo.On("ListApproverLoads", suite.ctx, domain.RoleFinanceCompany).Return(loads, nil).Once()

	approver, err := suite.service.AssignApprover(suite.ctx, domain.ScopeCompany)

	suite.Require().NoError(err)
	suite.Equal("fin-b", approver.EmployeeID)
}

func (suite *ApproverServiceTestSuite) TestAssignApprover_FullTieIsDeterministic() {
	now := time.Now()
	loads := []domain.ApproverLoad{
		candidate("fin-z", now, 1),
		candidate("fin-a", now, 1),
	}
	suite.mockRepo.On("ListApproverLoads", suite.ctx, domain.RoleFinanceCompany).Return(loads, nil).Once()

	approver, err := suite.service.AssignApprover(suite.ctx, domain.ScopeCompany)

	suite.Require().NoError(err)
	suite.Equal("fin-a", approver.EmployeeID)
}

func (suite *ApproverServiceTestSuite) TestAssignApprover_SchoolScopeQueriesSchoolRole() {
	loads := []domain.ApproverLoad{candidate("fin-s", time.Now(), 0)}
	suite.mockRepo.On("ListApproverLoads", suite.ctx, domain.RoleFinanceSchool).Return(loads, nil).Once()

	approver, err := suite.service.AssignApprover(suite.ctx, domain.ScopeSchool)

	suite.Require().NoError(err)
	suite.Equal("fin-s", approver.EmployeeID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApproverServiceTestSuite) TestAssignApprover_NoCandidates() {
	suite.mockRepo.On("ListApproverLoads", suite.ctx, domain.RoleFinanceCompany).
		Return([]domain.ApproverLoad{}, nil).Once()

	approver, err := suite.service.AssignApprover(suite.ctx, domain.ScopeCompany)

	suite.Require().Error(err)
	suite.True(errors.Is(err, services.ErrApproverNotFound))
	suite.Contains(err.Error(), string(domain.RoleFinanceCompany))
	suite.Nil(approver)
}

func TestApproverServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApproverServiceTestSuite))
}
