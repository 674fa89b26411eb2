package hid

import (
	"log/slog"
	"sync/atomic"

	"github.com/godbus/dbus/v5"

	"github.com/meibye/ipr-keyboard/gatt"
	"github.com/meibye/ipr-keyboard/internal/log"
)

// Service is the HID-over-GATT keyboard service. The D-Bus handler
// goroutines mutate protocol mode, suspend and LED state; the typist worker
// reads the mode and pushes reports, so those fields are atomics.
type Service struct {
	controlPoint *gatt.Characteristic
	protocolMode *gatt.Characteristic
	inputReport  *gatt.Characteristic
	outputReport *gatt.Characteristic
	bootInput    *gatt.Characteristic
	bootOutput   *gatt.Characteristic

	mode      atomic.Uint32
	suspended atomic.Bool
	ledState  atomic.Uint32

	ledCallback func(uint8)

	logger *slog.Logger
	tracer log.RawLogger
}

// NewService builds the HID service onto app. Report-Input and Boot-Input
// share subs so either subscription wakes the typist worker.
func NewService(app *gatt.Application, subs *gatt.NotifyState, logger *slog.Logger, tracer log.RawLogger) *Service {
	s := &Service{logger: logger, tracer: tracer}
	s.mode.Store(ProtocolModeReport)

	svc := app.NewService(ServiceUUID, true)

	hidInfo := svc.NewCharacteristic(HIDInformationUUID, gatt.FlagRead)
	hidInfo.SetValue(HIDInformation)

	reportMap := svc.NewCharacteristic(ReportMapUUID, gatt.FlagRead, gatt.FlagEncryptRead)
	reportMap.SetValue(ReportMap)

	s.controlPoint = svc.NewCharacteristic(HIDControlPointUUID, gatt.FlagWriteWithoutResponse)
	controlPoint := s.controlPoint
	controlPoint.OnWrite(func(value []byte) *dbus.Error {
		if len(value) != 1 {
			return gatt.ErrInvalidArgs("control point expects a single byte")
		}
		suspended := value[0] == ControlSuspend
		s.suspended.Store(suspended)
		controlPoint.SetValue(value)
		if suspended {
			s.logger.Info("HID control point: suspend")
		} else {
			s.logger.Info("HID control point: resume")
		}
		return nil
	})

	s.protocolMode = svc.NewCharacteristic(ProtocolModeUUID, gatt.FlagRead, gatt.FlagWriteWithoutResponse)
	protocolMode := s.protocolMode
	protocolMode.SetValue([]byte{ProtocolModeReport})
	protocolMode.OnWrite(func(value []byte) *dbus.Error {
		if len(value) != 1 {
			return gatt.ErrInvalidArgs("protocol mode expects a single byte")
		}
		mode := value[0]
		if mode != ProtocolModeBoot && mode != ProtocolModeReport {
			return gatt.ErrInvalidArgs("protocol mode out of range")
		}
		s.mode.Store(uint32(mode))
		protocolMode.SetValue(value)
		s.logger.Info("protocol mode set", "mode", mode)
		return nil
	})

	s.inputReport = svc.NewCharacteristic(ReportUUID,
		gatt.FlagRead, gatt.FlagNotify, gatt.FlagEncryptRead, gatt.FlagEncryptNotify)
	s.inputReport.SetValue(ReleaseReport())
	s.inputReport.NewDescriptor(ReportReferenceUUID, []string{gatt.FlagRead}, []byte{0x01, ReportTypeInput})
	s.inputReport.OnNotify(func(active bool) {
		if active {
			subs.Acquire()
			s.logger.Info("input report notify enabled")
		} else {
			subs.Release()
			s.logger.Info("input report notify disabled")
		}
	})

	s.outputReport = svc.NewCharacteristic(ReportUUID,
		gatt.FlagRead, gatt.FlagWrite, gatt.FlagWriteWithoutResponse,
		gatt.FlagEncryptRead, gatt.FlagEncryptWrite)
	s.outputReport.SetValue([]byte{0x00})
	s.outputReport.NewDescriptor(ReportReferenceUUID, []string{gatt.FlagRead}, []byte{0x01, ReportTypeOutput})
	s.outputReport.OnWrite(func(value []byte) *dbus.Error {
		if len(value) < 1 {
			return gatt.ErrInvalidArgs("output report expects at least one byte")
		}
		leds := value[0] & ledMask
		s.ledState.Store(uint32(leds))
		s.outputReport.SetValue([]byte{leds})
		if s.tracer != nil {
			s.tracer.Log(true, value)
		}
		s.logger.Debug("LED output report", "leds", leds)
		if s.ledCallback != nil {
			s.ledCallback(leds)
		}
		return nil
	})

	s.bootInput = svc.NewCharacteristic(BootKeyboardInputUUID,
		gatt.FlagRead, gatt.FlagNotify, gatt.FlagEncryptRead, gatt.FlagEncryptNotify)
	s.bootInput.SetValue(ReleaseReport())
	s.bootInput.OnNotify(func(active bool) {
		if active {
			subs.Acquire()
			s.logger.Info("boot input notify enabled")
		} else {
			subs.Release()
			s.logger.Info("boot input notify disabled")
		}
	})

	s.bootOutput = svc.NewCharacteristic(BootKeyboardOutUUID,
		gatt.FlagRead, gatt.FlagWrite, gatt.FlagWriteWithoutResponse,
		gatt.FlagEncryptRead, gatt.FlagEncryptWrite)
	s.bootOutput.SetValue([]byte{0x00})
	s.bootOutput.OnWrite(func(value []byte) *dbus.Error {
		if len(value) < 1 {
			return gatt.ErrInvalidArgs("output report expects at least one byte")
		}
		s.bootOutput.SetValue([]byte{value[0] & ledMask})
		return nil
	})

	return s
}

// SetLEDCallback sets a callback invoked when the host writes LED state.
func (s *Service) SetLEDCallback(f func(uint8)) { s.ledCallback = f }

// Mode returns the current protocol mode.
func (s *Service) Mode() uint8 { return uint8(s.mode.Load()) }

// Suspended reports the last HID Control Point state. Recorded only; it does
// not gate report delivery.
func (s *Service) Suspended() bool { return s.suspended.Load() }

// LEDState returns the LED mask last written by the host.
func (s *Service) LEDState() uint8 { return uint8(s.ledState.Load()) }

// NotifyKeyReport delivers a key report on the characteristic matching the
// negotiated protocol, falling back to the other input path when the
// preferred one has no subscriber. The fallback keeps keystrokes flowing when
// a host's negotiated mode briefly disagrees with local tracking.
func (s *Service) NotifyKeyReport(report []byte) bool {
	var ok bool
	if s.mode.Load() == ProtocolModeBoot {
		ok = s.bootInput.Notify(report) || s.inputReport.Notify(report)
	} else {
		ok = s.inputReport.Notify(report) || s.bootInput.Notify(report)
	}
	if ok && s.tracer != nil {
		s.tracer.Log(false, report)
	}
	return ok
}

// ControlPoint exposes the HID Control Point characteristic.
func (s *Service) ControlPoint() *gatt.Characteristic { return s.controlPoint }

// ProtocolMode exposes the Protocol Mode characteristic.
func (s *Service) ProtocolMode() *gatt.Characteristic { return s.protocolMode }

// InputReport exposes the Report-protocol input characteristic.
func (s *Service) InputReport() *gatt.Characteristic { return s.inputReport }

// OutputReport exposes the LED output characteristic.
func (s *Service) OutputReport() *gatt.Characteristic { return s.outputReport }

// BootInput exposes the Boot-protocol input characteristic.
func (s *Service) BootInput() *gatt.Characteristic { return s.bootInput }

// BootOutput exposes the Boot-protocol output characteristic.
func (s *Service) BootOutput() *gatt.Characteristic { return s.bootOutput }
