// Package events defines the typed workflow update contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - workflow.*
//   - agent.*
//   - plan.*
//   - system.*
//   - connection.*
//   - results.*
//   - user.*
//
// workflow events
//
//   - StageChanged (workflow.stage_changed): the backend moved the workflow
//     to a new stage. Stages are trusted verbatim; no transition validation
//     is applied.
//   - WorkflowReset (workflow.reset): locally injected request to discard
//     the session state wholesale.
//
// agent events
//
//   - AgentActivated (agent.activated): an agent started working.
//   - AgentDeactivated (agent.deactivated): an agent stopped working.
//   - AgentCompleted (agent.completed): an agent finished its task. State
//     effects are identical to AgentDeactivated; the kinds stay distinct
//     because downstream consumers may tell them apart for analytics.
//   - AgentError (agent.error): an agent reported a failure.
//
// plan events
//
//   - PlanUpdated (plan.updated): textual plan content arrived, either a
//     partial conversational fragment or a complete standardized plan.
//
// system events
//
//   - SystemNotification (system.notification): informational message from
//     the backend, optionally signalling processing completion.
//   - SystemError (system.error): backend-level failure.
//
// connection events
//
//   - ConnectionStatusChanged (connection.status_changed): transport
//     connection health transition, delivered in-stream so ordering against
//     other updates is preserved.
//
// results events
//
//   - ResultsUpdated (results.updated): a batch of displayable results to be
//     merged into the authoritative result list.
//
// user events
//
//   - UserMessageAdded (user.message_added): locally injected user chat turn.
package events
