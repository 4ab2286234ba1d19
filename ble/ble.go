// Package ble is the BlueZ collaborator that delivers BLE-MIDI notification
// payloads. It owns connection and subscription only; every payload goes to
// the handler as an opaque byte buffer and the decoder does the rest.
package ble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName     = "org.bluez"
	adapterPath = "/org/bluez/hci0"
	deviceIface = "org.bluez.Device1"
	gattIface   = "org.bluez.GattCharacteristic1"
	propsIface  = "org.freedesktop.DBus.Properties"
	objMgrIface = "org.freedesktop.DBus.ObjectManager"

	// BLE-MIDI service/characteristic UUIDs (MIDI over Bluetooth LE spec,
	// used by the Aeroband among others).
	midiServiceUUID = "03b80e5a-ede8-4b33-a751-6ce34ec4c700"
	midiCharUUID    = "7772e5db-3868-4112-a1a9-f2669d106bf3"
)

// deviceObjectPath converts a MAC address like "AA:BB:CC:DD:EE:FF" to
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func deviceObjectPath(addr string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(addr, ":", "_")
	return dbus.ObjectPath(adapterPath + "/dev_" + escaped)
}

// Client wraps a system D-Bus connection for one BLE-MIDI device.
type Client struct {
	conn     *dbus.Conn
	addr     string
	charPath dbus.ObjectPath
}

func NewClient(addr string) (*Client, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	// Quick check that BlueZ is on the bus.
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("org.bluez not found on system bus — is bluetooth.service running?")
	}
	return &Client{conn: conn, addr: addr}, nil
}

func (c *Client) Close() {
	c.conn.Close()
}

// Connect asks BlueZ to connect the device. Pairing is assumed to have
// happened out of band (bluetoothctl).
func (c *Client) Connect() error {
	obj := c.conn.Object(busName, deviceObjectPath(c.addr))
	if err := obj.Call(deviceIface+".Connect", 0).Err; err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	slog.Info("connected to device", "addr", c.addr)
	return nil
}

func (c *Client) Disconnect() error {
	obj := c.conn.Object(busName, deviceObjectPath(c.addr))
	return obj.Call(deviceIface+".Disconnect", 0).Err
}

// findMIDICharacteristic walks the managed object tree for the GATT
// characteristic carrying BLE-MIDI under our device.
func (c *Client) findMIDICharacteristic() (dbus.ObjectPath, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	obj := c.conn.Object(busName, "/")
	if err := obj.Call(objMgrIface+".GetManagedObjects", 0).Store(&objects); err != nil {
		return "", fmt.Errorf("get managed objects: %w", err)
	}

	devPrefix := string(deviceObjectPath(c.addr))
	for path, ifaces := range objects {
		props, ok := ifaces[gattIface]
		if !ok {
			continue
		}
		if !strings.HasPrefix(string(path), devPrefix) {
			continue
		}
		uuid, ok := props["UUID"].Value().(string)
		if !ok {
			continue
		}
		if strings.EqualFold(uuid, midiCharUUID) {
			slog.Debug("found MIDI characteristic", "path", path)
			return path, nil
		}
	}
	return "", fmt.Errorf("MIDI characteristic %s not found under %s (services not resolved yet?)", midiCharUUID, devPrefix)
}

// Subscribe starts notifications on the MIDI characteristic and calls
// handler with each notification payload until ctx is cancelled. It blocks.
func (c *Client) Subscribe(ctx context.Context, handler func([]byte)) error {
	charPath, err := c.findMIDICharacteristic()
	if err != nil {
		return err
	}
	c.charPath = charPath

	if err := c.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(charPath),
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("add signal match: %w", err)
	}

	signals := make(chan *dbus.Signal, 32)
	c.conn.Signal(signals)

	char := c.conn.Object(busName, charPath)
	if err := char.Call(gattIface+".StartNotify", 0).Err; err != nil {
		return fmt.Errorf("start notify: %w", err)
	}
	slog.Info("MIDI notifications started", "addr", c.addr)

	defer func() {
		if err := char.Call(gattIface+".StopNotify", 0).Err; err != nil {
			slog.Debug("stop notify failed", "err", err)
		}
		c.conn.RemoveSignal(signals)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return fmt.Errorf("signal channel closed (bus connection lost)")
			}
			payload, ok := notificationValue(sig)
			if !ok {
				continue
			}
			handler(payload)
		}
	}
}

// notificationValue extracts the characteristic Value bytes from a
// PropertiesChanged signal, if the signal carries one.
func notificationValue(sig *dbus.Signal) ([]byte, bool) {
	if len(sig.Body) < 2 {
		return nil, false
	}
	iface, ok := sig.Body[0].(string)
	if !ok || iface != gattIface {
		return nil, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, false
	}
	v, ok := changed["Value"]
	if !ok {
		return nil, false
	}
	payload, ok := v.Value().([]byte)
	return payload, ok
}
