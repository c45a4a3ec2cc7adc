package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Altamayyoz/Altamayyoz-sub001/internal/model"
	"github.com/Altamayyoz/Altamayyoz-sub001/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FirstSupervisor(_ context.Context) (*model.User, error) {
	// map 遍历无序，按 ID 取最小保证确定性
	var first *model.User
	for _, u := range m.users {
		if u.Role != model.RoleSupervisor || !u.IsActive {
			continue
		}
		if first == nil || u.UserID < first.UserID {
			first = u
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return first, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock TechnicianRepository ──

type mockTechnicianRepo struct {
	technicians map[string]*model.Technician
}

func newMockTechnicianRepo() *mockTechnicianRepo {
	return &mockTechnicianRepo{technicians: make(map[string]*model.Technician)}
}

func (m *mockTechnicianRepo) GetByID(_ context.Context, id string) (*model.Technician, error) {
	if t, ok := m.technicians[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTechnicianRepo) GetByUserID(_ context.Context, userID string) (*model.Technician, error) {
	for _, t := range m.technicians {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock OperationRepository ──

type mockOperationRepo struct {
	operations map[string]*model.Operation
}

func newMockOperationRepo() *mockOperationRepo {
	return &mockOperationRepo{operations: make(map[string]*model.Operation)}
}

func (m *mockOperationRepo) GetByName(_ context.Context, name string) (*model.Operation, error) {
	if op, ok := m.operations[name]; ok {
		return op, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperationRepo) List(_ context.Context) ([]model.Operation, error) {
	var result []model.Operation
	for _, op := range m.operations {
		result = append(result, *op)
	}
	return result, nil
}

// ── Mock JobOrderRepository ──

type mockJobOrderRepo struct {
	orders map[string]*model.JobOrder
}

func newMockJobOrderRepo() *mockJobOrderRepo {
	return &mockJobOrderRepo{orders: make(map[string]*model.JobOrder)}
}

func (m *mockJobOrderRepo) GetByID(_ context.Context, id string) (*model.JobOrder, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobOrderRepo) List(_ context.Context, status string, offset, limit int) ([]model.JobOrder, int64, error) {
	var result []model.JobOrder
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (m *mockJobOrderRepo) UpdateProgress(_ context.Context, id string, progress float64) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.ProgressPercentage = progress
	return nil
}

func (m *mockJobOrderRepo) UpdateStatusIf(_ context.Context, id, fromStatus, toStatus string) (int64, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != fromStatus {
		return 0, nil
	}
	o.Status = toStatus
	return 1, nil
}

func (m *mockJobOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

// ── Mock TaskRepository ──

// mockTaskRepo 持有 jobOrders 引用以复算工单平均进度（与 SQL 中的子查询对应）
type mockTaskRepo struct {
	tasks     map[string]*model.Task
	jobOrders *mockJobOrderRepo
	seq       int
}

func newMockTaskRepo(jobOrders *mockJobOrderRepo) *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task), jobOrders: jobOrders}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		m.seq++
		task.TaskID = fmt.Sprintf("task-%03d", m.seq)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]model.Task, int64, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.TechnicianID != "" && t.TechnicianID != filter.TechnicianID {
			continue
		}
		if filter.JobOrderID != "" && t.JobOrderID != filter.JobOrderID {
			continue
		}
		if filter.Date != nil && !sameDate(t.TaskDate, *filter.Date) {
			continue
		}
		result = append(result, *t)
	}
	return result, int64(len(result)), nil
}

func (m *mockTaskRepo) UpdateStatusIfPending(_ context.Context, taskID, newStatus string) (int64, error) {
	t, ok := m.tasks[taskID]
	if !ok || t.Status != model.TaskStatusPending {
		return 0, nil
	}
	t.Status = newStatus
	return 1, nil
}

func (m *mockTaskRepo) AggregateApproved(_ context.Context, technicianID string, date time.Time) (*repository.ApprovedAggregate, error) {
	agg := &repository.ApprovedAggregate{}
	var effSum float64
	for _, t := range m.tasks {
		if t.TechnicianID != technicianID || t.Status != model.TaskStatusApproved || !sameDate(t.TaskDate, date) {
			continue
		}
		agg.TaskCount++
		agg.TotalDevices += t.DevicesCompleted
		agg.TotalActualMinutes += t.ActualTimeMinutes
		effSum += t.EfficiencyPercentage
	}
	if agg.TaskCount > 0 {
		agg.AvgEfficiency = effSum / float64(agg.TaskCount)
	}
	return agg, nil
}

func (m *mockTaskRepo) SumApprovedDevices(_ context.Context, jobOrderID string) (int, error) {
	sum := 0
	for _, t := range m.tasks {
		if t.JobOrderID == jobOrderID && t.Status == model.TaskStatusApproved {
			sum += t.DevicesCompleted
		}
	}
	return sum, nil
}

func (m *mockTaskRepo) AvgJobOrderProgress(_ context.Context, technicianID string, date time.Time) (float64, error) {
	seen := make(map[string]struct{})
	var sum float64
	for _, t := range m.tasks {
		if t.TechnicianID != technicianID || t.Status != model.TaskStatusApproved || !sameDate(t.TaskDate, date) {
			continue
		}
		if _, dup := seen[t.JobOrderID]; dup {
			continue
		}
		seen[t.JobOrderID] = struct{}{}
		if o, ok := m.jobOrders.orders[t.JobOrderID]; ok {
			sum += o.ProgressPercentage
		}
	}
	if len(seen) == 0 {
		return 0, nil
	}
	return sum / float64(len(seen)), nil
}

// ── Mock ApprovalRecordRepository ──

type mockApprovalRepo struct {
	records []model.ApprovalRecord
	seq     int
}

func newMockApprovalRepo() *mockApprovalRepo {
	return &mockApprovalRepo{}
}

func (m *mockApprovalRepo) Create(_ context.Context, record *model.ApprovalRecord) error {
	if record.ApprovalRecordID == "" {
		m.seq++
		record.ApprovalRecordID = fmt.Sprintf("ar-%03d", m.seq)
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockApprovalRepo) ListByTask(_ context.Context, taskID string) ([]model.ApprovalRecord, error) {
	var result []model.ApprovalRecord
	for _, r := range m.records {
		if r.TaskID == taskID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ── Mock QualityApprovalRepository ──

type mockQualityRepo struct {
	approvals map[string]*model.QualityApproval
	seq       int
}

func newMockQualityRepo() *mockQualityRepo {
	return &mockQualityRepo{approvals: make(map[string]*model.QualityApproval)}
}

func (m *mockQualityRepo) Create(_ context.Context, approval *model.QualityApproval) error {
	if approval.QualityApprovalID == "" {
		m.seq++
		approval.QualityApprovalID = fmt.Sprintf("qa-%03d", m.seq)
	}
	m.approvals[approval.QualityApprovalID] = approval
	return nil
}

func (m *mockQualityRepo) GetByID(_ context.Context, id string) (*model.QualityApproval, error) {
	if a, ok := m.approvals[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQualityRepo) ListPending(_ context.Context, offset, limit int) ([]model.QualityApproval, int64, error) {
	var result []model.QualityApproval
	for _, a := range m.approvals {
		if a.Status == model.QualityStatusPending {
			result = append(result, *a)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockQualityRepo) HasOpen(_ context.Context, jobOrderID string) (bool, error) {
	for _, a := range m.approvals {
		if a.JobOrderID == jobOrderID && a.Status == model.QualityStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockQualityRepo) DecideIfPending(_ context.Context, id, status, decidedBy, comments string, decidedAt time.Time) (int64, error) {
	a, ok := m.approvals[id]
	if !ok || a.Status != model.QualityStatusPending {
		return 0, nil
	}
	a.Status = status
	a.DecidedBy = &decidedBy
	a.Comments = comments
	a.DecidedAt = &decidedAt
	return 1, nil
}

// ── Mock MetricRepository ──

type mockMetricRepo struct {
	metrics map[string]*model.PerformanceMetric
	seq     int
}

func newMockMetricRepo() *mockMetricRepo {
	return &mockMetricRepo{metrics: make(map[string]*model.PerformanceMetric)}
}

func metricKey(technicianID string, date time.Time) string {
	return technicianID + "|" + date.Format(model.DateOnly)
}

func (m *mockMetricRepo) GetByKey(_ context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error) {
	if metric, ok := m.metrics[metricKey(technicianID, date)]; ok {
		return metric, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMetricRepo) EnsureAndLock(_ context.Context, technicianID string, date time.Time) (*model.PerformanceMetric, error) {
	key := metricKey(technicianID, date)
	if metric, ok := m.metrics[key]; ok {
		return metric, nil
	}
	m.seq++
	metric := &model.PerformanceMetric{
		MetricID:     fmt.Sprintf("pm-%03d", m.seq),
		TechnicianID: technicianID,
		MetricDate:   date,
	}
	m.metrics[key] = metric
	return metric, nil
}

func (m *mockMetricRepo) Save(_ context.Context, metric *model.PerformanceMetric) error {
	m.metrics[metricKey(metric.TechnicianID, metric.MetricDate)] = metric
	return nil
}

func (m *mockMetricRepo) ListRange(_ context.Context, technicianID string, start, end time.Time) ([]model.PerformanceMetric, error) {
	var result []model.PerformanceMetric
	for _, metric := range m.metrics {
		if technicianID != "" && metric.TechnicianID != technicianID {
			continue
		}
		if metric.MetricDate.Before(start) || metric.MetricDate.After(end) {
			continue
		}
		result = append(result, *metric)
	}
	return result, nil
}

func (m *mockMetricRepo) ListByDate(_ context.Context, date time.Time) ([]model.PerformanceMetric, error) {
	var result []model.PerformanceMetric
	for _, metric := range m.metrics {
		if sameDate(metric.MetricDate, date) {
			result = append(result, *metric)
		}
	}
	return result, nil
}

// ── Mock AlertRepository ──

type mockAlertRepo struct {
	alerts []*model.Alert
	seq    int
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{}
}

func (m *mockAlertRepo) Create(_ context.Context, alert *model.Alert) error {
	if alert.AlertID == "" {
		m.seq++
		alert.AlertID = fmt.Sprintf("al-%03d", m.seq)
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *mockAlertRepo) List(_ context.Context, filter repository.AlertFilter) ([]model.Alert, int64, error) {
	var result []model.Alert
	for _, a := range m.alerts {
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.UnreadOnly && a.ReadStatus {
			continue
		}
		if filter.Date != nil && !sameDate(a.AlertDate, *filter.Date) {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAlertRepo) MarkRead(_ context.Context, id string) (int64, error) {
	for _, a := range m.alerts {
		if a.AlertID == id {
			a.ReadStatus = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockAlertRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, a := range m.alerts {
		if !a.ReadStatus {
			count++
		}
	}
	return count, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.SupervisorNotification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.SupervisorNotification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.SupervisorNotification) error {
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("sn-%03d", m.seq)
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.SupervisorNotification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) GetByTask(_ context.Context, taskID string) (*model.SupervisorNotification, error) {
	for _, n := range m.notifications {
		if n.TaskID == taskID {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) List(_ context.Context, status string, offset, limit int) ([]model.SupervisorNotification, int64, error) {
	var result []model.SupervisorNotification
	for _, n := range m.notifications {
		if status != "" && n.Status != status {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) UpdateStatus(_ context.Context, id, status string) error {
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Status = status
	return nil
}

// ── 公共辅助 ──

func sameDate(a, b time.Time) bool {
	return a.Format(model.DateOnly) == b.Format(model.DateOnly)
}
