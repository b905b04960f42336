package models

// Machine type categories carried in telemetry. Values outside the set are
// accepted and passed through to classification unmodified.
const (
	MachineTypeLow    = 0
	MachineTypeMedium = 1
	MachineTypeHigh   = 2
)

// Expected value ranges per field. These are the sampling domain for
// synthetic generation; incoming observations are NOT range-checked.
const (
	AirTempMinK  = 295.0
	AirTempMaxK  = 304.0
	ProcTempMinK = 305.0
	ProcTempMaxK = 313.0
	SpeedMinRPM  = 1000.0
	SpeedMaxRPM  = 2500.0
	TorqueMinNm  = 3.5
	TorqueMaxNm  = 77.0
	WearMin      = 0.0
	WearMax      = 253.0
)

// MachineInput is one raw observation as submitted over the wire. All fields
// are required; pointers let zero values (e.g. tool wear 0) satisfy the
// presence check.
type MachineInput struct {
	Type                *int     `json:"Type" binding:"required"`
	AirTemperatureK     *float64 `json:"Air_temperature_K" binding:"required"`
	ProcessTemperatureK *float64 `json:"Process_temperature_K" binding:"required"`
	RotationalSpeedRPM  *float64 `json:"Rotational_speed_rpm" binding:"required"`
	TorqueNm            *float64 `json:"Torque_Nm" binding:"required"`
	ToolWearMin         *float64 `json:"Tool_wear_min" binding:"required"`
}

// MachineRecord is one stored observation plus its failure label. Both
// storage backends serialize to exactly this logical shape; the surrogate id
// exists only for the database variant and never leaves the process.
type MachineRecord struct {
	ID                  uint    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MachineType         int     `gorm:"column:machine_type" json:"machine_type"`
	AirTemperatureK     float64 `gorm:"column:air_temperature_k" json:"air_temperature_k"`
	ProcessTemperatureK float64 `gorm:"column:process_temperature_k" json:"process_temperature_k"`
	RotationalSpeedRPM  float64 `gorm:"column:rotational_speed_rpm" json:"rotational_speed_rpm"`
	TorqueNm            float64 `gorm:"column:torque_nm" json:"torque_nm"`
	ToolWearMin         float64 `gorm:"column:tool_wear_min" json:"tool_wear_min"`
	Prediction          int     `gorm:"column:prediction" json:"prediction"`
}

func (MachineRecord) TableName() string { return "machine_records" }

// ToRecord maps the wire shape onto the storage shape. Every input field maps
// to exactly one storage field; the prediction is attached later by the
// ingestion service. Callers must have checked presence first.
func (in MachineInput) ToRecord() MachineRecord {
	return MachineRecord{
		MachineType:         *in.Type,
		AirTemperatureK:     *in.AirTemperatureK,
		ProcessTemperatureK: *in.ProcessTemperatureK,
		RotationalSpeedRPM:  *in.RotationalSpeedRPM,
		TorqueNm:            *in.TorqueNm,
		ToolWearMin:         *in.ToolWearMin,
	}
}

// MissingField returns the wire name of the first absent field, or "" when
// the input is complete.
func (in MachineInput) MissingField() string {
	switch {
	case in.Type == nil:
		return "Type"
	case in.AirTemperatureK == nil:
		return "Air_temperature_K"
	case in.ProcessTemperatureK == nil:
		return "Process_temperature_K"
	case in.RotationalSpeedRPM == nil:
		return "Rotational_speed_rpm"
	case in.TorqueNm == nil:
		return "Torque_Nm"
	case in.ToolWearMin == nil:
		return "Tool_wear_min"
	}
	return ""
}
