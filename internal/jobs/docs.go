// Package jobs provides scheduled background tasks for the freight service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds precision) and are
// managed together through JobManager:
//
//	jobManager := jobs.NewJobManager(onHoldHandler, publisher, waybillPool, time.Hour, schedules, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// 1. OnHoldLegsJob - republishes a LegOnHold event for every leg still waiting for
// manual booking and keeps the legs-on-hold gauge current.
// 2. StrandedWaybillJob - reports waybill reservations that were never consumed or
// released, which happens when the process stops mid-booking.
//
// # Error Handling
//
// A failed run is logged and the next tick tries again. Failed job starts stop any
// already running jobs.
package jobs
