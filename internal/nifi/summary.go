package nifi

import (
	"context"
	"fmt"
)

// Health assessments returned by FlowHealthStatus.
const (
	HealthHealthy   = "HEALTHY"
	HealthDegraded  = "DEGRADED"
	HealthUnhealthy = "UNHEALTHY"
)

// ProcessGroupSummary aggregates processor states, connection counts, and
// queued data for a process group.
func (c *Client) ProcessGroupSummary(ctx context.Context, pgID string) (Entity, error) {
	processors, err := c.ListProcessors(ctx, pgID)
	if err != nil {
		return nil, err
	}
	connections, err := c.ListConnections(ctx, pgID)
	if err != nil {
		return nil, err
	}

	stateCounts := map[string]int{}
	for _, raw := range entSlice(processors, "processors") {
		proc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		state := entStr(proc, "component", "state")
		if state == "" {
			state = "UNKNOWN"
		}
		stateCounts[state]++
	}

	var totalFlowFiles, totalBytes int64
	connList := entSlice(connections, "connections")
	for _, raw := range connList {
		conn, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		status := normalizeSnapshot(entMap(conn, "status"))
		totalFlowFiles += entInt(status, "flowFilesQueued")
		totalBytes += entInt(status, "bytesQueued")
	}

	return Entity{
		"processGroupId":       pgID,
		"processorStateCounts": stateCounts,
		"connectionCount":      len(connList),
		"totalFlowFilesQueued": totalFlowFiles,
		"totalBytesQueued":     totalBytes,
	}, nil
}

// FlowHealthStatus builds a component-by-component health report for a
// process group: processor and service state counts, queue pressure, recent
// bulletins, and an overall assessment.
func (c *Client) FlowHealthStatus(ctx context.Context, pgID string) (Entity, error) {
	processors, err := c.ListProcessors(ctx, pgID)
	if err != nil {
		return nil, err
	}
	services, err := c.GetControllerServices(ctx, pgID)
	if err != nil {
		return nil, err
	}
	connections, err := c.ListConnections(ctx, pgID)
	if err != nil {
		return nil, err
	}

	procCounts := map[string]int{"running": 0, "stopped": 0, "invalid": 0, "disabled": 0}
	var invalidProcessors []string
	for _, raw := range entSlice(processors, "processors") {
		proc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		switch entStr(proc, "component", "state") {
		case StateRunning:
			procCounts["running"]++
		case StateStopped:
			procCounts["stopped"]++
		case StateDisabled:
			procCounts["disabled"]++
		}
		if len(entSlice(entMap(proc, "component"), "validationErrors")) > 0 {
			procCounts["invalid"]++
			invalidProcessors = append(invalidProcessors, entStr(proc, "component", "name"))
		}
	}

	svcCounts := map[string]int{"enabled": 0, "disabled": 0, "invalid": 0}
	for _, raw := range entSlice(services, "controllerServices") {
		svc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		switch entStr(svc, "component", "state") {
		case StateEnabled, "ENABLING":
			svcCounts["enabled"]++
		default:
			svcCounts["disabled"]++
		}
		if len(entSlice(entMap(svc, "component"), "validationErrors")) > 0 {
			svcCounts["invalid"]++
		}
	}

	var queuedFlowFiles int64
	backpressured := 0
	for _, raw := range entSlice(connections, "connections") {
		conn, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		status := normalizeSnapshot(entMap(conn, "status"))
		queuedFlowFiles += entInt(status, "flowFilesQueued")
		if entInt(status, "percentUseCount") >= 100 || entInt(status, "percentUseBytes") >= 100 {
			backpressured++
		}
	}

	// Bulletins are engine-wide; include recent ones so errors in this group
	// surface alongside the counts.
	var bulletins []any
	if board, err := c.GetBulletins(ctx, 0); err == nil {
		if bb := entMap(board, "bulletinBoard"); bb != nil {
			bulletins = entSlice(bb, "bulletins")
		}
	}

	assessment := HealthHealthy
	switch {
	case procCounts["invalid"] > 0 || svcCounts["invalid"] > 0 || backpressured > 0:
		assessment = HealthUnhealthy
	case procCounts["stopped"] > 0 && procCounts["running"] > 0:
		assessment = HealthDegraded
	case procCounts["running"] == 0 && procCounts["stopped"] > 0:
		assessment = HealthDegraded
	}

	return Entity{
		"processGroupId":           pgID,
		"processors":               procCounts,
		"invalidProcessors":        invalidProcessors,
		"controllerServices":       svcCounts,
		"flowFilesQueued":          queuedFlowFiles,
		"backpressuredConnections": backpressured,
		"recentBulletins":          bulletins,
		"assessment":               assessment,
	}, nil
}

// BulkResult reports per-component outcomes of a group-wide operation.
type BulkResult struct {
	Changed   int      `json:"changed"`
	Unchanged int      `json:"unchanged"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// StartAllProcessorsInGroup starts every stopped processor in a group.
func (c *Client) StartAllProcessorsInGroup(ctx context.Context, pgID string) (*BulkResult, error) {
	return c.bulkProcessorRunStatus(ctx, pgID, StateRunning)
}

// StopAllProcessorsInGroup stops every running processor in a group.
func (c *Client) StopAllProcessorsInGroup(ctx context.Context, pgID string) (*BulkResult, error) {
	return c.bulkProcessorRunStatus(ctx, pgID, StateStopped)
}

func (c *Client) bulkProcessorRunStatus(ctx context.Context, pgID, state string) (*BulkResult, error) {
	listing, err := c.ListProcessors(ctx, pgID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for _, raw := range entSlice(listing, "processors") {
		proc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := entStr(proc, "component", "name")
		if entStr(proc, "component", "state") == state {
			result.Unchanged++
			continue
		}
		version := entInt(entMap(proc, "revision"), "version")
		id := entStr(proc, "component", "id")
		if _, err := c.setProcessorRunStatus(ctx, id, version, state); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		result.Changed++
	}
	return result, nil
}

// EnableAllControllerServicesInGroup enables every disabled controller
// service in a group.
func (c *Client) EnableAllControllerServicesInGroup(ctx context.Context, pgID string) (*BulkResult, error) {
	listing, err := c.GetControllerServices(ctx, pgID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	for _, raw := range entSlice(listing, "controllerServices") {
		svc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := entStr(svc, "component", "name")
		state := entStr(svc, "component", "state")
		if state == StateEnabled || state == "ENABLING" {
			result.Unchanged++
			continue
		}
		version := entInt(entMap(svc, "revision"), "version")
		id := entStr(svc, "component", "id")
		if _, err := c.EnableControllerService(ctx, id, version); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		result.Changed++
	}
	return result, nil
}
