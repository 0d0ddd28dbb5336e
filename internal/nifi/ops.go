package nifi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Component source/destination types accepted by CreateConnection.
const (
	ComponentProcessor  = "PROCESSOR"
	ComponentInputPort  = "INPUT_PORT"
	ComponentOutputPort = "OUTPUT_PORT"
	ComponentFunnel     = "FUNNEL"
)

// Processor and port run states.
const (
	StateRunning  = "RUNNING"
	StateStopped  = "STOPPED"
	StateEnabled  = "ENABLED"
	StateDisabled = "DISABLED"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Parameter is one entry in a parameter context.
type Parameter struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Sensitive   bool   `json:"sensitive"`
}

// revision builds a NiFi optimistic-locking envelope. Every mutation must
// echo the component's current revision version.
func (c *Client) revision(version int64) map[string]any {
	return map[string]any{"clientId": c.clientID(), "version": version}
}

func (c *Client) clientID() string {
	c.clientIDOnce.Do(func() {
		c.clientIDVal = uuid.NewString()
	})
	return c.clientIDVal
}

func versionQuery(c *Client, version int64) url.Values {
	return url.Values{
		"version":  []string{strconv.FormatInt(version, 10)},
		"clientId": []string{c.clientID()},
	}
}

// ===== Read operations =====

// GetRootProcessGroup returns the root process group flow.
func (c *Client) GetRootProcessGroup(ctx context.Context) (Entity, error) {
	return c.get(ctx, "flow/process-groups/root", nil)
}

// GetProcessGroup returns the flow of one process group.
func (c *Client) GetProcessGroup(ctx context.Context, pgID string) (Entity, error) {
	return c.get(ctx, "flow/process-groups/"+pgID, nil)
}

// ListProcessors lists processors in a process group.
func (c *Client) ListProcessors(ctx context.Context, pgID string) (Entity, error) {
	return c.get(ctx, "process-groups/"+pgID+"/processors", nil)
}

// ListConnections lists connections in a process group.
func (c *Client) ListConnections(ctx context.Context, pgID string) (Entity, error) {
	return c.get(ctx, "process-groups/"+pgID+"/connections", nil)
}

// GetProcessor returns full processor detail including configuration.
func (c *Client) GetProcessor(ctx context.Context, processorID string) (Entity, error) {
	return c.get(ctx, "processors/"+processorID, nil)
}

// GetProcessorState returns just the processor run state (RUNNING, STOPPED,
// DISABLED, ...).
func (c *Client) GetProcessorState(ctx context.Context, processorID string) (string, error) {
	entity, err := c.GetProcessor(ctx, processorID)
	if err != nil {
		return "", err
	}
	state := entStr(entity, "component", "state")
	if state == "" {
		return "", &Error{Kind: KindRemote, Op: "GET processors/" + processorID,
			Err: fmt.Errorf("processor entity has no component.state")}
	}
	return state, nil
}

// GetBulletins returns the bulletin board, optionally only bulletins after
// the given bulletin ID.
func (c *Client) GetBulletins(ctx context.Context, after int64) (Entity, error) {
	var query url.Values
	if after > 0 {
		query = url.Values{"after": []string{strconv.FormatInt(after, 10)}}
	}
	return c.get(ctx, "flow/bulletin-board", query)
}

// ListParameterContexts lists parameter contexts. On NiFi 2.x inherited
// parameters are requested explicitly; the response shape is normalized to
// the 1.x layout.
func (c *Client) ListParameterContexts(ctx context.Context) (Entity, error) {
	return c.get(ctx, "flow/parameter-contexts", c.parameterContextQuery(ctx))
}

// GetParameterContext returns one parameter context with all parameters.
func (c *Client) GetParameterContext(ctx context.Context, contextID string) (Entity, error) {
	return c.get(ctx, "parameter-contexts/"+contextID, nil)
}

// GetControllerServices lists controller services. An empty pgID targets
// controller-level services.
func (c *Client) GetControllerServices(ctx context.Context, pgID string) (Entity, error) {
	if pgID == "" {
		return c.get(ctx, "flow/controller/controller-services", nil)
	}
	return c.get(ctx, "flow/process-groups/"+pgID+"/controller-services", nil)
}

// GetControllerService returns one controller service with properties and state.
func (c *Client) GetControllerService(ctx context.Context, serviceID string) (Entity, error) {
	return c.get(ctx, "controller-services/"+serviceID, nil)
}

// FindControllerServicesByType returns services in scope whose component type
// matches serviceType exactly. Use before creating singleton services.
func (c *Client) FindControllerServicesByType(ctx context.Context, pgID, serviceType string) ([]Entity, error) {
	listing, err := c.GetControllerServices(ctx, pgID)
	if err != nil {
		return nil, err
	}

	var matches []Entity
	for _, raw := range entSlice(listing, "controllerServices") {
		svc, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if entStr(svc, "component", "type") == serviceType {
			matches = append(matches, svc)
		}
	}
	return matches, nil
}

// GetProcessorTypes returns all processor types available on the engine.
func (c *Client) GetProcessorTypes(ctx context.Context) (Entity, error) {
	return c.get(ctx, "flow/processor-types", nil)
}

// SearchFlow searches the flow for components matching the query.
func (c *Client) SearchFlow(ctx context.Context, query string) (Entity, error) {
	return c.get(ctx, "flow/search-results", url.Values{"q": []string{query}})
}

// GetConnection returns connection detail including queue status.
func (c *Client) GetConnection(ctx context.Context, connectionID string) (Entity, error) {
	return c.get(ctx, "connections/"+connectionID, nil)
}

// QueueSize is the queued flowfile count and byte total of a connection.
type QueueSize struct {
	FlowFilesQueued int64 `json:"flowFilesQueued"`
	BytesQueued     int64 `json:"bytesQueued"`
}

// GetConnectionQueueSize reports how much data is queued on a connection.
// Connections must be empty before they can be deleted.
func (c *Client) GetConnectionQueueSize(ctx context.Context, connectionID string) (*QueueSize, error) {
	entity, err := c.GetConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	status := normalizeSnapshot(entMap(entity, "status"))
	return &QueueSize{
		FlowFilesQueued: entInt(status, "flowFilesQueued"),
		BytesQueued:     entInt(status, "bytesQueued"),
	}, nil
}

// GetInputPorts lists input ports of a process group.
func (c *Client) GetInputPorts(ctx context.Context, pgID string) (Entity, error) {
	return c.get(ctx, "process-groups/"+pgID+"/input-ports", nil)
}

// GetOutputPorts lists output ports of a process group.
func (c *Client) GetOutputPorts(ctx context.Context, pgID string) (Entity, error) {
	return c.get(ctx, "process-groups/"+pgID+"/output-ports", nil)
}

// ===== Write operations =====

// StartProcessor transitions a processor to RUNNING.
func (c *Client) StartProcessor(ctx context.Context, processorID string, version int64) (Entity, error) {
	return c.setProcessorRunStatus(ctx, processorID, version, StateRunning)
}

// StopProcessor transitions a processor to STOPPED.
func (c *Client) StopProcessor(ctx context.Context, processorID string, version int64) (Entity, error) {
	return c.setProcessorRunStatus(ctx, processorID, version, StateStopped)
}

func (c *Client) setProcessorRunStatus(ctx context.Context, processorID string, version int64, state string) (Entity, error) {
	return c.put(ctx, "processors/"+processorID+"/run-status", map[string]any{
		"revision":                     c.revision(version),
		"state":                        state,
		"disconnectedNodeAcknowledged": false,
	})
}

// TerminateProcessor force-kills a stuck processor's threads. A normal stop
// is attempted first, best effort; the thread termination is issued either way.
func (c *Client) TerminateProcessor(ctx context.Context, processorID string, version int64) (Entity, error) {
	if _, err := c.StopProcessor(ctx, processorID, version); err != nil {
		c.logger.Warn("stop before terminate failed", zap.String("processor_id", processorID), zap.Error(err))
	}
	return c.delete(ctx, "processors/"+processorID+"/threads", nil)
}

// CreateProcessor creates a processor in a process group at the given
// canvas position. An empty name defaults to the short type name
// ("org.apache.nifi.processors.standard.GenerateFlowFile" -> "GenerateFlowFile").
func (c *Client) CreateProcessor(ctx context.Context, pgID, processorType, name string, pos Position) (Entity, error) {
	if name == "" {
		name = processorType
		if i := strings.LastIndex(processorType, "."); i >= 0 {
			name = processorType[i+1:]
		}
	}
	return c.post(ctx, "process-groups/"+pgID+"/processors", map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"type":     processorType,
			"name":     name,
			"position": pos,
		},
	})
}

// UpdateProcessor updates processor configuration. component carries the
// fields to change (config.properties, schedulingStrategy, ...).
func (c *Client) UpdateProcessor(ctx context.Context, processorID string, version int64, component Entity) (Entity, error) {
	merged := make(map[string]any, len(component)+1)
	for k, v := range component {
		merged[k] = v
	}
	merged["id"] = processorID
	return c.put(ctx, "processors/"+processorID, map[string]any{
		"revision":  c.revision(version),
		"component": merged,
	})
}

// DeleteProcessor deletes a processor.
func (c *Client) DeleteProcessor(ctx context.Context, processorID string, version int64) (Entity, error) {
	return c.delete(ctx, "processors/"+processorID, versionQuery(c, version))
}

// CreateConnection connects two components with the selected relationships.
func (c *Client) CreateConnection(ctx context.Context, pgID, sourceID, sourceType, destinationID, destinationType string, relationships []string) (Entity, error) {
	return c.post(ctx, "process-groups/"+pgID+"/connections", map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"source":                map[string]any{"id": sourceID, "type": sourceType},
			"destination":           map[string]any{"id": destinationID, "type": destinationType},
			"selectedRelationships": relationships,
		},
	})
}

// DeleteConnection deletes a connection. Fails remotely if flowfiles are
// queued; drain with EmptyConnectionQueue first.
func (c *Client) DeleteConnection(ctx context.Context, connectionID string, version int64) (Entity, error) {
	return c.delete(ctx, "connections/"+connectionID, versionQuery(c, version))
}

// EmptyConnectionQueue drops all queued flowfiles on a connection.
func (c *Client) EmptyConnectionQueue(ctx context.Context, connectionID string) (Entity, error) {
	return c.post(ctx, "flowfile-queues/"+connectionID+"/drop-requests", nil)
}

// EnableControllerService enables a controller service.
func (c *Client) EnableControllerService(ctx context.Context, serviceID string, version int64) (Entity, error) {
	return c.setServiceRunStatus(ctx, serviceID, version, StateEnabled)
}

// DisableControllerService disables a controller service.
func (c *Client) DisableControllerService(ctx context.Context, serviceID string, version int64) (Entity, error) {
	return c.setServiceRunStatus(ctx, serviceID, version, StateDisabled)
}

func (c *Client) setServiceRunStatus(ctx context.Context, serviceID string, version int64, state string) (Entity, error) {
	return c.put(ctx, "controller-services/"+serviceID+"/run-status", map[string]any{
		"revision": c.revision(version),
		"state":    state,
	})
}

// CreateControllerService creates a controller service in a process group.
func (c *Client) CreateControllerService(ctx context.Context, pgID, serviceType, name string) (Entity, error) {
	return c.post(ctx, "process-groups/"+pgID+"/controller-services", map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"type": serviceType,
			"name": name,
		},
	})
}

// UpdateControllerService updates service properties. The service must be
// DISABLED.
func (c *Client) UpdateControllerService(ctx context.Context, serviceID string, version int64, properties map[string]string) (Entity, error) {
	return c.put(ctx, "controller-services/"+serviceID, map[string]any{
		"revision": c.revision(version),
		"component": map[string]any{
			"id":         serviceID,
			"properties": properties,
		},
	})
}

// DeleteControllerService deletes a disabled, unreferenced controller service.
func (c *Client) DeleteControllerService(ctx context.Context, serviceID string, version int64) (Entity, error) {
	return c.delete(ctx, "controller-services/"+serviceID, versionQuery(c, version))
}

// CreateProcessGroup creates a child process group.
func (c *Client) CreateProcessGroup(ctx context.Context, parentID, name string, pos Position) (Entity, error) {
	return c.post(ctx, "process-groups/"+parentID+"/process-groups", map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"name":     name,
			"position": pos,
		},
	})
}

// UpdateProcessGroup renames a process group.
func (c *Client) UpdateProcessGroup(ctx context.Context, pgID string, version int64, name string) (Entity, error) {
	return c.put(ctx, "process-groups/"+pgID, map[string]any{
		"revision": c.revision(version),
		"component": map[string]any{
			"id":   pgID,
			"name": name,
		},
	})
}

// DeleteProcessGroup deletes an empty, stopped process group.
func (c *Client) DeleteProcessGroup(ctx context.Context, pgID string, version int64) (Entity, error) {
	return c.delete(ctx, "process-groups/"+pgID, versionQuery(c, version))
}

// CreateInputPort creates an input port in a process group.
func (c *Client) CreateInputPort(ctx context.Context, pgID, name string, pos Position) (Entity, error) {
	return c.createPort(ctx, pgID, "input-ports", name, pos)
}

// CreateOutputPort creates an output port in a process group.
func (c *Client) CreateOutputPort(ctx context.Context, pgID, name string, pos Position) (Entity, error) {
	return c.createPort(ctx, pgID, "output-ports", name, pos)
}

func (c *Client) createPort(ctx context.Context, pgID, kind, name string, pos Position) (Entity, error) {
	return c.post(ctx, "process-groups/"+pgID+"/"+kind, map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"name":     name,
			"position": pos,
		},
	})
}

// UpdateInputPort renames an input port.
func (c *Client) UpdateInputPort(ctx context.Context, portID string, version int64, name string) (Entity, error) {
	return c.updatePort(ctx, "input-ports", portID, version, name)
}

// UpdateOutputPort renames an output port.
func (c *Client) UpdateOutputPort(ctx context.Context, portID string, version int64, name string) (Entity, error) {
	return c.updatePort(ctx, "output-ports", portID, version, name)
}

func (c *Client) updatePort(ctx context.Context, kind, portID string, version int64, name string) (Entity, error) {
	return c.put(ctx, kind+"/"+portID, map[string]any{
		"revision": c.revision(version),
		"component": map[string]any{
			"id":   portID,
			"name": name,
		},
	})
}

// DeleteInputPort deletes an input port.
func (c *Client) DeleteInputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.delete(ctx, "input-ports/"+portID, versionQuery(c, version))
}

// DeleteOutputPort deletes an output port.
func (c *Client) DeleteOutputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.delete(ctx, "output-ports/"+portID, versionQuery(c, version))
}

// StartInputPort starts an input port. Ports are created STOPPED.
func (c *Client) StartInputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.setPortRunStatus(ctx, "input-ports", portID, version, StateRunning)
}

// StopInputPort stops an input port.
func (c *Client) StopInputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.setPortRunStatus(ctx, "input-ports", portID, version, StateStopped)
}

// StartOutputPort starts an output port.
func (c *Client) StartOutputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.setPortRunStatus(ctx, "output-ports", portID, version, StateRunning)
}

// StopOutputPort stops an output port.
func (c *Client) StopOutputPort(ctx context.Context, portID string, version int64) (Entity, error) {
	return c.setPortRunStatus(ctx, "output-ports", portID, version, StateStopped)
}

func (c *Client) setPortRunStatus(ctx context.Context, kind, portID string, version int64, state string) (Entity, error) {
	return c.put(ctx, kind+"/"+portID+"/run-status", map[string]any{
		"revision":                     c.revision(version),
		"state":                        state,
		"disconnectedNodeAcknowledged": false,
	})
}

// CreateParameterContext creates a parameter context.
func (c *Client) CreateParameterContext(ctx context.Context, name, description string, params []Parameter) (Entity, error) {
	return c.post(ctx, "parameter-contexts", map[string]any{
		"revision": c.revision(0),
		"component": map[string]any{
			"name":        name,
			"description": description,
			"parameters":  wrapParameters(params),
		},
	})
}

// UpdateParameterContext updates a parameter context's name and/or parameters.
// Empty name keeps the current one; nil params leave parameters untouched.
func (c *Client) UpdateParameterContext(ctx context.Context, contextID string, version int64, name string, params []Parameter) (Entity, error) {
	component := map[string]any{"id": contextID}
	if name != "" {
		component["name"] = name
	}
	if params != nil {
		component["parameters"] = wrapParameters(params)
	}
	return c.put(ctx, "parameter-contexts/"+contextID, map[string]any{
		"revision":  c.revision(version),
		"component": component,
	})
}

// DeleteParameterContext deletes an unreferenced parameter context.
func (c *Client) DeleteParameterContext(ctx context.Context, contextID string, version int64) (Entity, error) {
	return c.delete(ctx, "parameter-contexts/"+contextID, versionQuery(c, version))
}

// ApplyParameterContextToProcessGroup binds a parameter context to a process
// group so its processors can reference #{param} expressions.
func (c *Client) ApplyParameterContextToProcessGroup(ctx context.Context, pgID string, pgVersion int64, contextID string) (Entity, error) {
	return c.put(ctx, "process-groups/"+pgID, map[string]any{
		"revision": c.revision(pgVersion),
		"component": map[string]any{
			"id":               pgID,
			"parameterContext": map[string]any{"id": contextID},
		},
	})
}

func wrapParameters(params []Parameter) []map[string]any {
	wrapped := make([]map[string]any, 0, len(params))
	for _, p := range params {
		wrapped = append(wrapped, map[string]any{"parameter": p})
	}
	return wrapped
}

// ===== Entity field helpers =====

func entMap(e map[string]any, path ...string) map[string]any {
	current := e
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func entStr(e map[string]any, path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := e
	if len(path) > 1 {
		parent = entMap(e, path[:len(path)-1]...)
	}
	if parent == nil {
		return ""
	}
	s, _ := parent[path[len(path)-1]].(string)
	return s
}

func entSlice(e map[string]any, key string) []any {
	s, _ := e[key].([]any)
	return s
}

// entInt reads a numeric field. NiFi reports counters as JSON numbers, which
// decode to float64, but string-typed byte counts appear in some 1.x builds.
func entInt(e map[string]any, key string) int64 {
	if e == nil {
		return 0
	}
	switch v := e[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	default:
		return 0
	}
}
