//go:build linux

// Package inhibit keeps the machine from suspending while audio plays.
package inhibit

import (
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/soi-cli/soi/constant"
	"github.com/soi-cli/soi/log"
)

// Suspend inhibition flag of org.gnome.SessionManager.Inhibit.
const flagInhibitSuspend = 4

// Acquire asks the desktop session manager to hold off suspension and
// returns a release function. Environments without a session bus are not
// an error; the release function is then a no-op.
func Acquire(reason string) func() {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debugf("session bus unavailable: %v", err)
		return func() {}
	}

	manager := conn.Object("org.gnome.SessionManager", "/org/gnome/SessionManager")

	var cookie uint32
	err = manager.Call(
		"org.gnome.SessionManager.Inhibit", 0,
		constant.Soi, uint32(os.Getpid()), reason, uint32(flagInhibitSuspend),
	).Store(&cookie)
	if err != nil {
		log.Debugf("inhibit suspend: %v", err)
		conn.Close()
		return func() {}
	}

	log.Infof("suspend inhibited, cookie %d", cookie)
	return func() {
		if err := manager.Call("org.gnome.SessionManager.Uninhibit", 0, cookie).Err; err != nil {
			log.Warnf("uninhibit suspend: %v", err)
		}
		conn.Close()
	}
}
