package sqlinline

// One statement per batch keeps multi-date adds all-or-nothing.
const QInsertTodosForDates = `--sql a388ae45-2a58-4718-a767-2cfb33f22a0a
insert into todos (id, user_id, task, is_completed, due_date, created_at)
select gen_random_uuid(), $1::uuid, $2::text, false, d, now()
from unnest($3::date[]) as d;
`

const QSelectTodosByUser = `--sql a60836b4-ba63-43e2-bda7-b93ad50de6b3
select id, task, is_completed, to_char(due_date, 'YYYY-MM-DD'), created_at
from todos
where user_id = $1::uuid
order by created_at desc;
`

const QUpdateTodoCompleted = `--sql 0fcf6fa6-f79a-4916-830b-1ab5d99f415d
update todos
set is_completed = $3::boolean
where id = $1::uuid and user_id = $2::uuid;
`

const QDeleteTodo = `--sql 27234da2-cc45-49c5-b232-5f5b73ad394f
delete from todos
where id = $1::uuid and user_id = $2::uuid;
`
