// =============================================================================
// MockProvider - 渲染供应商测试模拟实现
// =============================================================================
// 支持固定响应、错误注入与调用计数，用于 registry / service 测试
//
// 使用方法:
//
//	p := mocks.NewMockProvider("p1").
//	    WithCapabilities(types.CapabilityTextToVideo).
//	    WithTiers(types.QualityStandard)
//	p.SetGenerateError(errors.New("boom"))
// =============================================================================
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/BaSui01/videoflow/types"

	"github.com/google/uuid"
)

// MockProvider 是 types.Provider 的可编程模拟实现
type MockProvider struct {
	mu sync.Mutex

	descriptor types.ProviderDescriptor

	// 注入的行为
	validateOK     bool
	validateReason string
	generateErr    error
	generateStatus types.VideoStatus
	statusErr      error
	statusOverride map[string]*types.GenerationResult
	cancelOK       bool
	cancelErr      error

	// 调用计数
	ValidateCalls int
	GenerateCalls int
	StatusCalls   int
	CancelCalls   int

	// 已接受的任务
	jobs map[string]*types.GenerationResult
}

// NewMockProvider 创建默认可用、全量档位的模拟供应商
func NewMockProvider(id string) *MockProvider {
	return &MockProvider{
		descriptor: types.ProviderDescriptor{
			ID:                 id,
			Name:               "mock-" + id,
			Capabilities:       types.NewCapabilitySet(types.AllCapabilities()...),
			SupportedTiers:     types.AllQualityTiers(),
			MaxDurationSeconds: 180,
			CostPerSecond:      0.05,
			AvgGenerationTime:  20 * time.Second,
			Available:          true,
		},
		validateOK:     true,
		generateStatus: types.StatusProcessing,
		cancelOK:       true,
		statusOverride: make(map[string]*types.GenerationResult),
		jobs:           make(map[string]*types.GenerationResult),
	}
}

// WithCapabilities 覆盖能力集合
func (m *MockProvider) WithCapabilities(caps ...types.Capability) *MockProvider {
	m.descriptor.Capabilities = types.NewCapabilitySet(caps...)
	return m
}

// WithTiers 覆盖支持的质量档位
func (m *MockProvider) WithTiers(tiers ...types.QualityTier) *MockProvider {
	m.descriptor.SupportedTiers = tiers
	return m
}

// WithCost 覆盖每秒成本
func (m *MockProvider) WithCost(costPerSecond float64) *MockProvider {
	m.descriptor.CostPerSecond = costPerSecond
	return m
}

// WithAvgTime 覆盖平均生成耗时
func (m *MockProvider) WithAvgTime(d time.Duration) *MockProvider {
	m.descriptor.AvgGenerationTime = d
	return m
}

// WithAvailable 覆盖可用标记
func (m *MockProvider) WithAvailable(available bool) *MockProvider {
	m.descriptor.Available = available
	return m
}

// WithMetadata 追加描述符元数据
func (m *MockProvider) WithMetadata(key, value string) *MockProvider {
	if m.descriptor.Metadata == nil {
		m.descriptor.Metadata = make(map[string]string)
	}
	m.descriptor.Metadata[key] = value
	return m
}

// SetValidateResult 注入预检结果
func (m *MockProvider) SetValidateResult(ok bool, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validateOK, m.validateReason = ok, reason
}

// SetGenerateError 注入 Generate 错误
func (m *MockProvider) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateErr = err
}

// SetGenerateStatus 设置 Generate 返回结果的初始状态
func (m *MockProvider) SetGenerateStatus(status types.VideoStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateStatus = status
}

// SetStatus 注入指定任务的查询结果
func (m *MockProvider) SetStatus(jobID string, res *types.GenerationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusOverride[jobID] = res
}

// SetStatusError 注入 Status 错误
func (m *MockProvider) SetStatusError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusErr = err
}

// SetCancelResult 注入 Cancel 行为
func (m *MockProvider) SetCancelResult(ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelOK, m.cancelErr = ok, err
}

// Descriptor 实现 types.Provider
func (m *MockProvider) Descriptor() types.ProviderDescriptor {
	return m.descriptor
}

// ValidateRequest 实现 types.Provider
func (m *MockProvider) ValidateRequest(req *types.GenerationRequest) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidateCalls++
	return m.validateOK, m.validateReason
}

// Generate 实现 types.Provider
func (m *MockProvider) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls++
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	res := &types.GenerationResult{
		ID:         uuid.NewString(),
		Status:     m.generateStatus,
		ProviderID: m.descriptor.ID,
		CreatedAt:  time.Now(),
	}
	if res.Status.Terminal() {
		res.CompletedAt = time.Now()
		if res.Status == types.StatusCompleted {
			res.OutputURL = "mock://" + res.ID + ".mp4"
		}
	}
	m.jobs[res.ID] = res
	return res, nil
}

// Status 实现 types.Provider
func (m *MockProvider) Status(ctx context.Context, jobID string) (*types.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls++
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	if res, ok := m.statusOverride[jobID]; ok {
		return res, nil
	}
	if res, ok := m.jobs[jobID]; ok {
		return res, nil
	}
	return nil, types.Errorf(types.ErrJobNotFound, "job %s unknown", jobID)
}

// Cancel 实现 types.Provider
func (m *MockProvider) Cancel(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls++
	return m.cancelOK, m.cancelErr
}
