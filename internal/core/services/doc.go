// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// PipelineService runs transcripts through annotation, segmentation and
// filtering. StatsService measures raw transcripts. SettingsService
// resolves configuration into domain settings.
package services
