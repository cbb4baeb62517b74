//go:build windows

package taskscheduler

import (
	"fmt"
	"strings"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/rs/zerolog"
	"github.com/scjalliance/comshim"

	so "github.com/iamacarpet/mirrormount/shared"
)

// Task Scheduler 2.0 enumerations (taskschd.h).
const (
	TASK_TRIGGER_BOOT         = 8
	TASK_ACTION_EXEC          = 0
	TASK_CREATE_OR_UPDATE     = 6
	TASK_LOGON_PASSWORD       = 1
	TASK_RUNLEVEL_HIGHEST     = 1
	TASK_INSTANCES_IGNORE_NEW = 2
)

// Scheduler manages tasks in the root folder of the local Task Scheduler.
type Scheduler struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// connect returns the root task folder. The returned function releases it
// and must always be called.
func (s *Scheduler) connect() (*ole.IDispatch, *ole.IDispatch, func(), error) {
	comshim.Add(1)

	unknown, err := oleutil.CreateObject("Schedule.Service")
	if err != nil {
		comshim.Done()
		return nil, nil, nil, fmt.Errorf("Failed to create Schedule.Service object: %s", err)
	}
	defer unknown.Release()

	service, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		comshim.Done()
		return nil, nil, nil, fmt.Errorf("Failed to create Schedule.Service object (2): %s", err)
	}

	if _, err := oleutil.CallMethod(service, "Connect"); err != nil {
		service.Release()
		comshim.Done()
		return nil, nil, nil, fmt.Errorf("Failed to connect to Task Scheduler: %s", err)
	}

	folderV, err := oleutil.CallMethod(service, "GetFolder", `\`)
	if err != nil {
		service.Release()
		comshim.Done()
		return nil, nil, nil, fmt.Errorf("Failed to open root task folder: %s", err)
	}
	folder := folderV.ToIDispatch()

	return service, folder, func() {
		folder.Release()
		service.Release()
		comshim.Done()
	}, nil
}

// Exists reports whether a task with the given name is registered in the
// root folder.
func (s *Scheduler) Exists(name string) (bool, error) {
	_, folder, release, err := s.connect()
	if err != nil {
		return false, err
	}
	defer release()

	return taskExistsByName(folder, name)
}

func taskExistsByName(folder *ole.IDispatch, name string) (bool, error) {
	// TASK_ENUM_HIDDEN
	tasksV, err := oleutil.CallMethod(folder, "GetTasks", 1)
	if err != nil {
		return false, fmt.Errorf("Failed to list tasks: %s", err)
	}
	tasks := tasksV.ToIDispatch()
	defer tasks.Release()

	countV, err := oleutil.GetProperty(tasks, "Count")
	if err != nil {
		return false, fmt.Errorf("Failed to get task count: %s", err)
	}
	count := int(countV.Val)

	for i := 1; i <= count; i++ {
		itemV, err := oleutil.GetProperty(tasks, "Item", i)
		if err != nil {
			return false, fmt.Errorf("Failed to get task %d: %s", i, err)
		}
		item := itemV.ToIDispatch()
		nameV, err := oleutil.GetProperty(item, "Name")
		item.Release()
		if err != nil {
			return false, fmt.Errorf("Failed to get task name: %s", err)
		}
		found := strings.EqualFold(nameV.ToString(), name)
		nameV.Clear()
		if found {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the task. A missing task yields shared.ErrTaskNotFound.
func (s *Scheduler) Delete(name string) error {
	_, folder, release, err := s.connect()
	if err != nil {
		return err
	}
	defer release()

	if ok, err := taskExistsByName(folder, name); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%s: %w", name, so.ErrTaskNotFound)
	}
	if _, err := oleutil.CallMethod(folder, "DeleteTask", name, 0); err != nil {
		return fmt.Errorf("Failed to delete task %s: %s", name, err)
	}
	s.log.Info().Str("task", name).Msg("task deleted")
	return nil
}

// Register creates or replaces the task described by d with a boot trigger,
// running with highest privileges under the stored password of d.User.
func (s *Scheduler) Register(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	service, folder, release, err := s.connect()
	if err != nil {
		return err
	}
	defer release()

	defV, err := oleutil.CallMethod(service, "NewTask", 0)
	if err != nil {
		return fmt.Errorf("Failed to create task definition: %s", err)
	}
	def := defV.ToIDispatch()
	defer def.Release()

	if err := putAll(def, "RegistrationInfo", map[string]interface{}{
		"Description": d.Description,
		"Author":      d.Author,
	}); err != nil {
		return err
	}
	if err := putAll(def, "Principal", map[string]interface{}{
		"UserId":    d.User,
		"LogonType": TASK_LOGON_PASSWORD,
		"RunLevel":  TASK_RUNLEVEL_HIGHEST,
	}); err != nil {
		return err
	}
	if err := putAll(def, "Settings", map[string]interface{}{
		"Enabled":                    true,
		"StartWhenAvailable":         true,
		"DisallowStartIfOnBatteries": false,
		"StopIfGoingOnBatteries":     false,
		"ExecutionTimeLimit":         isoDuration(0),
		"MultipleInstances":          TASK_INSTANCES_IGNORE_NEW,
	}); err != nil {
		return err
	}

	trigger, err := create(def, "Triggers", TASK_TRIGGER_BOOT)
	if err != nil {
		return err
	}
	defer trigger.Release()
	if _, err := oleutil.PutProperty(trigger, "Enabled", true); err != nil {
		return fmt.Errorf("Failed to enable boot trigger: %s", err)
	}
	if d.BootDelay > 0 {
		if _, err := oleutil.PutProperty(trigger, "Delay", isoDuration(d.BootDelay)); err != nil {
			return fmt.Errorf("Failed to set boot trigger delay: %s", err)
		}
	}

	action, err := create(def, "Actions", TASK_ACTION_EXEC)
	if err != nil {
		return err
	}
	defer action.Release()
	if _, err := oleutil.PutProperty(action, "Path", d.Command); err != nil {
		return fmt.Errorf("Failed to set action path: %s", err)
	}
	if d.Arguments != "" {
		if _, err := oleutil.PutProperty(action, "Arguments", d.Arguments); err != nil {
			return fmt.Errorf("Failed to set action arguments: %s", err)
		}
	}
	if d.WorkingDirectory != "" {
		if _, err := oleutil.PutProperty(action, "WorkingDirectory", d.WorkingDirectory); err != nil {
			return fmt.Errorf("Failed to set action working directory: %s", err)
		}
	}

	regV, err := oleutil.CallMethod(folder, "RegisterTaskDefinition",
		d.Name, def, TASK_CREATE_OR_UPDATE, d.User, d.Password, TASK_LOGON_PASSWORD, "")
	if err != nil {
		return fmt.Errorf("Failed to register task %s: %s", d.Name, err)
	}
	regV.Clear()

	s.log.Info().Str("task", d.Name).Str("user", d.User).Msg("task registered")
	return nil
}

// Run starts the registered task immediately.
func (s *Scheduler) Run(name string) error {
	_, folder, release, err := s.connect()
	if err != nil {
		return err
	}
	defer release()

	if ok, err := taskExistsByName(folder, name); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%s: %w", name, so.ErrTaskNotFound)
	}

	taskV, err := oleutil.CallMethod(folder, "GetTask", name)
	if err != nil {
		return fmt.Errorf("Failed to open task %s: %s", name, err)
	}
	task := taskV.ToIDispatch()
	defer task.Release()

	runV, err := oleutil.CallMethod(task, "Run", nil)
	if err != nil {
		return fmt.Errorf("Failed to run task %s: %s", name, err)
	}
	runV.Clear()
	return nil
}

func putAll(def *ole.IDispatch, property string, values map[string]interface{}) error {
	objV, err := oleutil.GetProperty(def, property)
	if err != nil {
		return fmt.Errorf("Failed to get %s: %s", property, err)
	}
	obj := objV.ToIDispatch()
	defer obj.Release()

	for k, v := range values {
		if _, err := oleutil.PutProperty(obj, k, v); err != nil {
			return fmt.Errorf("Failed to set %s.%s: %s", property, k, err)
		}
	}
	return nil
}

func create(def *ole.IDispatch, collection string, kind int) (*ole.IDispatch, error) {
	collV, err := oleutil.GetProperty(def, collection)
	if err != nil {
		return nil, fmt.Errorf("Failed to get %s: %s", collection, err)
	}
	coll := collV.ToIDispatch()
	defer coll.Release()

	itemV, err := oleutil.CallMethod(coll, "Create", kind)
	if err != nil {
		return nil, fmt.Errorf("Failed to create entry in %s: %s", collection, err)
	}
	return itemV.ToIDispatch(), nil
}
