package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/blackmetal/material_reports_bot/internal/apperrors"
	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/blackmetal/material_reports_bot/internal/core/services"
)

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, chatID int64) (*domain.ReportParameters, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportParameters), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, params domain.ReportParameters) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// --- Mock AccessSvc ---
type MockAccessSvc struct {
	mock.Mock
}

func (m *MockAccessSvc) IsAllowed(ctx context.Context, userID int64) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}

// --- Mock LocationReader ---
type MockLocationReader struct {
	mock.Mock
}

func (m *MockLocationReader) ListLocations(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock ReportSvc ---
type MockReportSvc struct {
	mock.Mock
}

func (m *MockReportSvc) Generate(ctx context.Context, params domain.ReportParameters) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// --- Mock Messenger ---
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

// --- Test Suite ---
type ConversationServiceTestSuite struct {
	suite.Suite
	mockSessions  *MockSessionRepository
	mockAccess    *MockAccessSvc
	mockLocations *MockLocationReader
	mockReports   *MockReportSvc
	mockMessenger *MockMessenger
	service       portssvc.ConversationSvc
}

func (suite *ConversationServiceTestSuite) SetupTest() {
	suite.mockSessions = new(MockSessionRepository)
	suite.mockAccess = new(MockAccessSvc)
	suite.mockLocations = new(MockLocationReader)
	suite.mockReports = new(MockReportSvc)
	suite.mockMessenger = new(MockMessenger)
	suite.service = services.NewConversationService(
		suite.mockSessions,
		suite.mockAccess,
		suite.mockLocations,
		suite.mockReports,
		suite.mockMessenger,
		services.WithConversationClock(func() time.Time {
			return time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC)
		}),
	)
}

// --- Start ---

func (suite *ConversationServiceTestSuite) TestStart_DeniedUserGetsNoSession() {
	ctx := context.Background()

	suite.mockAccess.On("IsAllowed", ctx, int64(7)).Return(false).Once()

	prompt, err := suite.service.Start(ctx, 100, 7, "Somebody")

	suite.Require().ErrorIs(err, apperrors.ErrAccessDenied)
	suite.Nil(prompt)
	suite.mockSessions.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
	suite.mockAccess.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestStart_OffersLocationsPlusGeneral() {
	ctx := context.Background()

	suite.mockAccess.On("IsAllowed", ctx, int64(7)).Return(true).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.ChatID == 100 && p.Stage == domain.StageChoosingLocation && p.RequestedBy == "Jane Doe"
	})).Return(nil).Once()
	suite.mockLocations.On("ListLocations", ctx).Return([]string{"Irpin", "Hostomel"}, nil).Once()

	prompt, err := suite.service.Start(ctx, 100, 7, "Jane Doe")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Equal("Choose a location for the report:", prompt.Text)
	suite.Require().Len(prompt.Options, 3)
	suite.Equal("Irpin", prompt.Options[0].Label)
	suite.Equal("choose_location:Irpin", prompt.Options[0].Data)
	suite.Equal("General report", prompt.Options[2].Label)
	suite.Equal("choose_location:ALL", prompt.Options[2].Data)

	suite.mockSessions.AssertExpectations(suite.T())
	suite.mockLocations.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestStart_LocationListFailureDegradesToGeneralOnly() {
	ctx := context.Background()

	suite.mockAccess.On("IsAllowed", ctx, int64(7)).Return(true).Once()
	suite.mockSessions.On("Save", ctx, mock.Anything).Return(nil).Once()
	suite.mockLocations.On("ListLocations", ctx).Return(nil, errors.New("sheet unavailable")).Once()

	prompt, err := suite.service.Start(ctx, 100, 7, "Jane Doe")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Require().Len(prompt.Options, 1)
	suite.Equal("General report", prompt.Options[0].Label)
}

// --- HandleChoice ---

func (suite *ConversationServiceTestSuite) TestHandleChoice_LocationAdvancesToView() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingLocation, RequestedBy: "Jane Doe"}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.Location == "Irpin" && p.Stage == domain.StageChoosingView
	})).Return(nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_location:Irpin")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Equal("Choose a report mode:", prompt.Text)
	suite.Require().Len(prompt.Options, 2)
	suite.Equal("choose_view:BRIEF", prompt.Options[0].Data)
	suite.Equal("choose_view:DETAILED", prompt.Options[1].Data)

	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_AllLocationsStoresEmptyFilter() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingLocation}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.Location == "" && p.Stage == domain.StageChoosingView
	})).Return(nil).Once()

	_, err := suite.service.HandleChoice(ctx, 100, "choose_location:ALL")

	suite.Require().NoError(err)
	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_ViewAdvancesToPeriod() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Location: "Irpin", Stage: domain.StageChoosingView}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.ViewMode == domain.ViewBrief && p.Stage == domain.StageChoosingPeriod
	})).Return(nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_view:BRIEF")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Equal("Choose a report period:", prompt.Text)
	suite.Require().Len(prompt.Options, 5)
	suite.Equal("choose_period:CUSTOM", prompt.Options[4].Data)

	suite.mockSessions.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_NamedPeriodCompletesAndGenerates() {
	ctx := context.Background()
	session := &domain.ReportParameters{
		ChatID:   100,
		Location: "Irpin",
		ViewMode: domain.ViewBrief,
		Stage:    domain.StageChoosingPeriod,
	}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.Stage == domain.StageCompleted &&
			p.PeriodType == domain.PeriodToday &&
			p.StartDate == "14.02.2025" && p.EndDate == "14.02.2025"
	})).Return(nil).Once()
	suite.mockMessenger.On("SendText", ctx, int64(100),
		"Your parameters are saved. The report is being generated, please wait.").Return(nil).Once()
	suite.mockReports.On("Generate", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.StartDate == "14.02.2025" && p.EndDate == "14.02.2025" && p.Location == "Irpin"
	})).Return(nil).Once()
	suite.mockSessions.On("Delete", ctx, int64(100)).Return(nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_period:TODAY")

	suite.Require().NoError(err)
	suite.Nil(prompt)

	suite.mockSessions.AssertExpectations(suite.T())
	suite.mockMessenger.AssertExpectations(suite.T())
	suite.mockReports.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_CustomPeriodAsksForDates() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingPeriod}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.Stage == domain.StageEnteringCustomDates && p.PeriodType == domain.PeriodCustom
	})).Return(nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_period:CUSTOM")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Empty(prompt.Options)
	suite.Contains(prompt.Text, "dd.mm.yyyy")

	suite.mockReports.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_StageMismatchIsIgnored() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingLocation}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_period:TODAY")

	suite.Require().NoError(err)
	suite.Nil(prompt)
	suite.mockSessions.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_MalformedDataIsIgnored() {
	ctx := context.Background()

	prompt, err := suite.service.HandleChoice(ctx, 100, "not a tagged choice")

	suite.Require().NoError(err)
	suite.Nil(prompt)
	suite.mockSessions.AssertNotCalled(suite.T(), "Get", mock.Anything, mock.Anything)
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_MissingSession() {
	ctx := context.Background()

	suite.mockSessions.On("Get", ctx, int64(100)).Return(nil, apperrors.ErrNotFound).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_location:Irpin")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(prompt)
}

func (suite *ConversationServiceTestSuite) TestHandleChoice_UnknownViewValueIsIgnored() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingView}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_view:SIDEWAYS")

	suite.Require().NoError(err)
	suite.Nil(prompt)
	suite.mockSessions.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
}

// --- HandleText ---

func (suite *ConversationServiceTestSuite) TestHandleText_ValidRangeCompletes() {
	ctx := context.Background()
	session := &domain.ReportParameters{
		ChatID:     100,
		ViewMode:   domain.ViewDetailed,
		PeriodType: domain.PeriodCustom,
		Stage:      domain.StageEnteringCustomDates,
	}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.Stage == domain.StageCompleted &&
			p.StartDate == "01.02.2025" && p.EndDate == "10.02.2025"
	})).Return(nil).Once()
	suite.mockMessenger.On("SendText", ctx, int64(100), mock.Anything).Return(nil).Once()
	suite.mockReports.On("Generate", ctx, mock.MatchedBy(func(p domain.ReportParameters) bool {
		return p.StartDate == "01.02.2025" && p.EndDate == "10.02.2025"
	})).Return(nil).Once()
	suite.mockSessions.On("Delete", ctx, int64(100)).Return(nil).Once()

	prompt, err := suite.service.HandleText(ctx, 100, "01.02.2025 - 10.02.2025")

	suite.Require().NoError(err)
	suite.Nil(prompt)
	suite.mockSessions.AssertExpectations(suite.T())
	suite.mockReports.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestHandleText_InvalidInputRepromptsWithoutAdvancing() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageEnteringCustomDates}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()

	prompt, err := suite.service.HandleText(ctx, 100, "01.02.2025 - 05.02.2025 - 10.02.2025")

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Equal("Invalid date format. Please enter dd.mm.yyyy or dd.mm.yyyy-dd.mm.yyyy", prompt.Text)
	suite.mockSessions.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything)
	suite.mockReports.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
}

func (suite *ConversationServiceTestSuite) TestHandleText_OutOfBandTextIsIgnored() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, Stage: domain.StageChoosingView}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()

	prompt, err := suite.service.HandleText(ctx, 100, "hello there")

	suite.Require().NoError(err)
	suite.Nil(prompt)
}

func (suite *ConversationServiceTestSuite) TestHandleText_NoSessionIsIgnored() {
	ctx := context.Background()

	suite.mockSessions.On("Get", ctx, int64(100)).Return(nil, apperrors.ErrNotFound).Once()

	prompt, err := suite.service.HandleText(ctx, 100, "01.02.2025")

	suite.Require().NoError(err)
	suite.Nil(prompt)
}

// --- Failure handling ---

func (suite *ConversationServiceTestSuite) TestGenerateFailureNotifiesUserAndDiscardsSession() {
	ctx := context.Background()
	session := &domain.ReportParameters{ChatID: 100, ViewMode: domain.ViewBrief, Stage: domain.StageChoosingPeriod}

	suite.mockSessions.On("Get", ctx, int64(100)).Return(session, nil).Once()
	suite.mockSessions.On("Save", ctx, mock.Anything).Return(nil).Once()
	suite.mockMessenger.On("SendText", ctx, int64(100),
		"Your parameters are saved. The report is being generated, please wait.").Return(nil).Once()
	suite.mockReports.On("Generate", ctx, mock.Anything).Return(errors.New("render failed")).Once()
	suite.mockMessenger.On("SendText", ctx, int64(100),
		"Report generation failed. Please try again later.").Return(nil).Once()
	suite.mockSessions.On("Delete", ctx, int64(100)).Return(nil).Once()

	prompt, err := suite.service.HandleChoice(ctx, 100, "choose_period:YESTERDAY")

	suite.Require().NoError(err)
	suite.Nil(prompt)
	suite.mockMessenger.AssertExpectations(suite.T())
	suite.mockSessions.AssertExpectations(suite.T())
}

// --- Cancel ---

func (suite *ConversationServiceTestSuite) TestCancel_DiscardsSession() {
	ctx := context.Background()

	suite.mockSessions.On("Delete", ctx, int64(100)).Return(nil).Once()

	prompt, err := suite.service.Cancel(ctx, 100)

	suite.Require().NoError(err)
	suite.Require().NotNil(prompt)
	suite.Equal("Operation cancelled.", prompt.Text)
	suite.mockSessions.AssertExpectations(suite.T())
}

func TestConversationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversationServiceTestSuite))
}
